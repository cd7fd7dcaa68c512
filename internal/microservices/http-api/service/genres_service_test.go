package service

import (
	"context"
	"fmt"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGenreService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("valid", func(t *testing.T) {
		repo := new(MockGenreRepository)
		repo.On("Create", ctx, mock.Anything).Return(nil)

		g, err := NewGenreService(repo).Create(ctx, dto.CreateSlugDTO{Name: "Sci-Fi", Slug: "sci-fi"})

		require.NoError(t, err)
		assert.Equal(t, "sci-fi", g.Slug)
	})

	t.Run("invalid slug", func(t *testing.T) {
		repo := new(MockGenreRepository)
		for _, slug := range []string{"Sci Fi", "sci_fi!", ""} {
			_, err := NewGenreService(repo).Create(ctx, dto.CreateSlugDTO{Name: "Sci-Fi", Slug: slug})
			assert.ErrorIs(t, err, ErrValidation, slug)
		}
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("duplicate slug", func(t *testing.T) {
		repo := new(MockGenreRepository)
		repo.On("Create", ctx, mock.Anything).
			Return(fmt.Errorf("create genre: %w: genres_slug_key", repository.ErrDuplicate))

		_, err := NewGenreService(repo).Create(ctx, dto.CreateSlugDTO{Name: "Drama", Slug: "drama"})

		var ce *ConflictError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, "slug", ce.Field)
	})
}

func TestCategoryService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCategoryRepository)
	repo.On("DeleteBySlug", ctx, "film").Return(nil)
	repo.On("DeleteBySlug", ctx, "ghost").Return(gorm.ErrRecordNotFound)
	svc := NewCategoryService(repo)

	assert.NoError(t, svc.Delete(ctx, "film"))
	assert.ErrorIs(t, svc.Delete(ctx, "ghost"), ErrNotFound)
}
