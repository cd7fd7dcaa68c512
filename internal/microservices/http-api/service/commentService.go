package service

import (
	"context"
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/repository"
)

type CommentService interface {
	CreateComment(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*models.Comment, error)
	ListComments(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error)
	UpdateComment(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentDTO) (*models.Comment, error)
	DeleteComment(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{commentRepo: commentRepo, reviewRepo: reviewRepo}
}

// review loads the parent review, which must belong to titleID.
func (s *commentService) review(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	r, err := s.reviewRepo.GetByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound("review", err)
	}
	return r, nil
}

func (s *commentService) CreateComment(ctx context.Context, actor permissions.Actor, titleID, reviewID int64, req dto.CreateCommentDTO) (*models.Comment, error) {
	if err := permissions.Check(permissions.AdminModeratorOwnerOrReadOnlyPolicy, http.MethodPost, actor, nil); err != nil {
		return nil, err
	}
	review, err := s.review(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	text := cleanText(req.Text)
	if text == "" {
		return nil, invalid("text", "this field may not be blank")
	}

	comment := &models.Comment{
		ReviewID: review.ID,
		AuthorID: actor.UserID,
		Text:     text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = models.User{ID: actor.UserID, Username: actor.Username}
	return comment, nil
}

func (s *commentService) ListComments(ctx context.Context, titleID, reviewID int64, page, pageSize int) ([]models.Comment, int64, error) {
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, 0, err
	}
	return s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if _, err := s.review(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	c, err := s.commentRepo.GetByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, notFound("comment", err)
	}
	return c, nil
}

func (s *commentService) UpdateComment(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64, req dto.UpdateCommentDTO) (*models.Comment, error) {
	c, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := permissions.Check(permissions.AdminModeratorOwnerOrReadOnlyPolicy, http.MethodPatch, actor, c); err != nil {
		return nil, err
	}
	if req.Text != nil {
		text := cleanText(*req.Text)
		if text == "" {
			return nil, invalid("text", "this field may not be blank")
		}
		c.Text = text
		if err := s.commentRepo.Update(ctx, c); err != nil {
			return nil, notFound("comment", err)
		}
	}
	return c, nil
}

func (s *commentService) DeleteComment(ctx context.Context, actor permissions.Actor, titleID, reviewID, commentID int64) error {
	c, err := s.GetComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := permissions.Check(permissions.AdminModeratorOwnerOrReadOnlyPolicy, http.MethodDelete, actor, c); err != nil {
		return err
	}
	return notFound("comment", s.commentRepo.Delete(ctx, c.ID))
}
