package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/gosimple/slug"
)

type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, req dto.CreateSlugDTO) (*models.Genre, error)
	Delete(ctx context.Context, slug string) error
}

type CategoryService interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, req dto.CreateSlugDTO) (*models.Category, error)
	Delete(ctx context.Context, slug string) error
}

// validateSlugged checks the name and slug shared by genres and categories.
func validateSlugged(req *dto.CreateSlugDTO) error {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return invalid("name", "this field may not be blank")
	}
	if utf8.RuneCountInString(req.Name) > maxNameLength {
		return invalid("name", "ensure this field has no more than %d characters", maxNameLength)
	}
	if len(req.Slug) > maxSlugLength {
		return invalid("slug", "ensure this field has no more than %d characters", maxSlugLength)
	}
	if !slug.IsSlug(req.Slug) {
		return invalid("slug", "enter a valid slug of lowercase letters, numbers and hyphens")
	}
	return nil
}

func slugConflict(err error) error {
	if isDuplicate(err) {
		return &ConflictError{Field: "slug", Message: "an entry with this slug already exists"}
	}
	return err
}

type genreService struct {
	repo repository.GenreRepository
}

func NewGenreService(repo repository.GenreRepository) GenreService {
	return &genreService{repo: repo}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
}

func (s *genreService) Create(ctx context.Context, req dto.CreateSlugDTO) (*models.Genre, error) {
	if err := validateSlugged(&req); err != nil {
		return nil, err
	}
	g := req.ToGenre()
	if err := s.repo.Create(ctx, &g); err != nil {
		return nil, slugConflict(err)
	}
	return &g, nil
}

func (s *genreService) Delete(ctx context.Context, slug string) error {
	return notFound("genre", s.repo.DeleteBySlug(ctx, slug))
}

type categoryService struct {
	repo repository.CategoryRepository
}

func NewCategoryService(repo repository.CategoryRepository) CategoryService {
	return &categoryService{repo: repo}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	return s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
}

func (s *categoryService) Create(ctx context.Context, req dto.CreateSlugDTO) (*models.Category, error) {
	if err := validateSlugged(&req); err != nil {
		return nil, err
	}
	c := req.ToCategory()
	if err := s.repo.Create(ctx, &c); err != nil {
		return nil, slugConflict(err)
	}
	return &c, nil
}

func (s *categoryService) Delete(ctx context.Context, slug string) error {
	return notFound("category", s.repo.DeleteBySlug(ctx, slug))
}
