package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	Get(ctx context.Context, id int64) (*models.Title, error)
	Create(ctx context.Context, req dto.CreateTitleDTO) (*models.Title, error)
	Update(ctx context.Context, id int64, req dto.UpdateTitleDTO) (*models.Title, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	genreRepo    repository.GenreRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

func NewTitleService(
	titleRepo repository.TitleRepository,
	genreRepo repository.GenreRepository,
	categoryRepo repository.CategoryRepository,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

func (s *titleService) List(ctx context.Context, filter repository.TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	return s.titleRepo.List(ctx, filter, page, pageSize)
}

func (s *titleService) Get(ctx context.Context, id int64) (*models.Title, error) {
	t, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("title", err)
	}
	return t, nil
}

func (s *titleService) Create(ctx context.Context, req dto.CreateTitleDTO) (*models.Title, error) {
	t := models.Title{
		Name:        strings.TrimSpace(req.Name),
		Year:        req.Year,
		Description: req.Description,
	}
	if err := s.validate(&t); err != nil {
		return nil, err
	}
	if req.Category != nil {
		id, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = id
	}
	genres, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}
	t.Genres = genres

	if err := s.titleRepo.Create(ctx, &t); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, id int64, req dto.UpdateTitleDTO) (*models.Title, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.ApplyTo(t)
	t.Name = strings.TrimSpace(t.Name)
	if err := s.validate(t); err != nil {
		return nil, err
	}
	if req.Category != nil {
		catID, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		t.CategoryID = catID
	}
	replaceGenres := req.Genre != nil
	if replaceGenres {
		genres, err := s.resolveGenres(ctx, *req.Genre)
		if err != nil {
			return nil, err
		}
		t.Genres = genres
	}

	if err := s.titleRepo.Update(ctx, t, replaceGenres); err != nil {
		return nil, notFound("title", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the title together with its reviews and their comments.
func (s *titleService) Delete(ctx context.Context, id int64) error {
	return notFound("title", s.titleRepo.Delete(ctx, id))
}

func (s *titleService) validate(t *models.Title) error {
	if t.Name == "" {
		return invalid("name", "this field may not be blank")
	}
	if utf8.RuneCountInString(t.Name) > maxNameLength {
		return invalid("name", "ensure this field has no more than %d characters", maxNameLength)
	}
	return ValidateYear(t.Year, s.now())
}

// resolveCategory maps a slug to a category id; an empty slug clears it.
func (s *titleService) resolveCategory(ctx context.Context, slug string) (*int64, error) {
	if slug == "" {
		return nil, nil
	}
	c, err := s.categoryRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalid("category", "unknown category %q", slug)
		}
		return nil, err
	}
	return &c.ID, nil
}

func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]models.Genre, error) {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, sl := range slugs {
		if !seen[sl] {
			seen[sl] = true
			unique = append(unique, sl)
		}
	}
	genres, err := s.genreRepo.FindBySlugs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(unique) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		for _, sl := range unique {
			if !found[sl] {
				return nil, invalid("genre", "unknown genre %q", sl)
			}
		}
	}
	return genres, nil
}
