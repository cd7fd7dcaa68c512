package service

import (
	"context"
	"fmt"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/repository"
)

const duplicateReviewMessage = "you have already reviewed this work"

type ReviewService interface {
	CreateReview(ctx context.Context, actor permissions.Actor, titleID int64, req dto.CreateReviewDTO) (*models.Review, error)
	ListReviews(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error)
	UpdateReview(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.UpdateReviewDTO) (*models.Review, error)
	DeleteReview(ctx context.Context, actor permissions.Actor, titleID, reviewID int64) error
	ComputeRating(ctx context.Context, titleID int64) (*float64, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, titleRepo: titleRepo}
}

func (s *reviewService) requireTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	return nil
}

// CreateReview stores the actor's only review of the title. The unique
// constraint on (author, title) is authoritative; the pre-check only gives
// the common case a clean error.
func (s *reviewService) CreateReview(ctx context.Context, actor permissions.Actor, titleID int64, req dto.CreateReviewDTO) (*models.Review, error) {
	if err := permissions.Check(permissions.AdminModeratorOwnerOrReadOnlyPolicy, http.MethodPost, actor, nil); err != nil {
		return nil, err
	}
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	if err := ValidateScore(req.Score); err != nil {
		return nil, err
	}
	text := cleanText(req.Text)
	if text == "" {
		return nil, invalid("text", "this field may not be blank")
	}

	exists, err := s.reviewRepo.ExistsByAuthorAndTitle(ctx, actor.UserID, titleID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &ConflictError{Field: "title", Message: duplicateReviewMessage}
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.UserID,
		Text:     text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if isDuplicate(err) {
			return nil, &ConflictError{Field: "title", Message: duplicateReviewMessage}
		}
		return nil, err
	}
	review.Author = models.User{ID: actor.UserID, Username: actor.Username}
	return review, nil
}

// ListReviews returns the title's reviews newest first.
func (s *reviewService) ListReviews(ctx context.Context, titleID int64, page, pageSize int) ([]models.Review, int64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, 0, err
	}
	return s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound("review", err)
	}
	return review, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.UpdateReviewDTO) (*models.Review, error) {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(permissions.AdminModeratorOwnerOrReadOnlyPolicy, http.MethodPatch, actor, review); err != nil {
		return nil, err
	}
	if req.Score != nil {
		if err := ValidateScore(*req.Score); err != nil {
			return nil, err
		}
		review.Score = *req.Score
	}
	if req.Text != nil {
		text := cleanText(*req.Text)
		if text == "" {
			return nil, invalid("text", "this field may not be blank")
		}
		review.Text = text
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, notFound("review", err)
	}
	return review, nil
}

// DeleteReview removes the review and its comments.
func (s *reviewService) DeleteReview(ctx context.Context, actor permissions.Actor, titleID, reviewID int64) error {
	review, err := s.GetReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if err := permissions.Check(permissions.AdminModeratorOwnerOrReadOnlyPolicy, http.MethodDelete, actor, review); err != nil {
		return err
	}
	return notFound("review", s.reviewRepo.Delete(ctx, review.ID))
}

// ComputeRating is the mean score of the title's reviews, nil without reviews.
func (s *reviewService) ComputeRating(ctx context.Context, titleID int64) (*float64, error) {
	if err := s.requireTitle(ctx, titleID); err != nil {
		return nil, err
	}
	scores, err := s.reviewRepo.ScoresByTitle(ctx, titleID)
	if err != nil {
		return nil, err
	}
	return Mean(scores), nil
}
