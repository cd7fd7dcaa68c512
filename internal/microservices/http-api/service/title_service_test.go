package service

import (
	"context"
	"testing"
	"time"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type titleFixture struct {
	svc        *titleService
	titles     *MockTitleRepository
	genres     *MockGenreRepository
	categories *MockCategoryRepository
}

func newTitleFixture() titleFixture {
	titles := new(MockTitleRepository)
	genres := new(MockGenreRepository)
	categories := new(MockCategoryRepository)
	svc := NewTitleService(titles, genres, categories).(*titleService)
	svc.now = func() time.Time { return time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC) }
	return titleFixture{svc: svc, titles: titles, genres: genres, categories: categories}
}

func TestCreateTitle(t *testing.T) {
	ctx := context.Background()
	f := newTitleFixture()
	catSlug := "film"
	drama := models.Genre{ID: 2, Name: "Drama", Slug: "drama"}

	f.categories.On("FindBySlug", ctx, "film").Return(&models.Category{ID: 5, Name: "Film", Slug: "film"}, nil)
	f.genres.On("FindBySlugs", ctx, []string{"drama"}).Return([]models.Genre{drama}, nil)
	f.titles.On("Create", ctx, mock.MatchedBy(func(tl *models.Title) bool {
		return tl.Name == "Solaris" && *tl.CategoryID == 5 && len(tl.Genres) == 1
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Title).ID = 11
	}).Return(nil)
	f.titles.On("GetByID", ctx, int64(11)).Return(&models.Title{ID: 11, Name: "Solaris"}, nil)

	title, err := f.svc.Create(ctx, dto.CreateTitleDTO{
		Name:     " Solaris ",
		Year:     1972,
		Genre:    []string{"drama", "drama"},
		Category: &catSlug,
	})

	require.NoError(t, err)
	assert.EqualValues(t, 11, title.ID)
	f.titles.AssertExpectations(t)
}

func TestCreateTitle_FutureYear(t *testing.T) {
	f := newTitleFixture()

	_, err := f.svc.Create(context.Background(), dto.CreateTitleDTO{Name: "Later", Year: 2999})

	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "year", fe.Field)
	f.titles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTitle_UnknownSlugs(t *testing.T) {
	ctx := context.Background()

	t.Run("genre", func(t *testing.T) {
		f := newTitleFixture()
		f.genres.On("FindBySlugs", ctx, []string{"drama", "nope"}).
			Return([]models.Genre{{ID: 2, Slug: "drama"}}, nil)

		_, err := f.svc.Create(ctx, dto.CreateTitleDTO{Name: "X", Year: 2000, Genre: []string{"drama", "nope"}})

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "genre", fe.Field)
		assert.Contains(t, fe.Message, "nope")
	})

	t.Run("category", func(t *testing.T) {
		f := newTitleFixture()
		slug := "nope"
		f.categories.On("FindBySlug", ctx, "nope").Return(nil, gorm.ErrRecordNotFound)

		_, err := f.svc.Create(ctx, dto.CreateTitleDTO{Name: "X", Year: 2000, Category: &slug})

		var fe *FieldError
		require.ErrorAs(t, err, &fe)
		assert.Equal(t, "category", fe.Field)
	})
}

func TestUpdateTitle_PartialKeepsGenres(t *testing.T) {
	ctx := context.Background()
	f := newTitleFixture()
	existing := &models.Title{ID: 3, Name: "Old", Year: 1999, Genres: []models.Genre{{ID: 1, Slug: "comedy"}}}
	name := "New"

	f.titles.On("GetByID", ctx, int64(3)).Return(existing, nil)
	f.titles.On("Update", ctx, existing, false).Return(nil)

	title, err := f.svc.Update(ctx, 3, dto.UpdateTitleDTO{Name: &name})

	require.NoError(t, err)
	assert.Equal(t, "New", title.Name)
	f.genres.AssertNotCalled(t, "FindBySlugs", mock.Anything, mock.Anything)
	f.titles.AssertExpectations(t)
}

func TestDeleteTitle(t *testing.T) {
	ctx := context.Background()
	f := newTitleFixture()
	f.titles.On("Delete", ctx, int64(3)).Return(nil)
	f.titles.On("Delete", ctx, int64(4)).Return(gorm.ErrRecordNotFound)

	assert.NoError(t, f.svc.Delete(ctx, 3))
	assert.ErrorIs(t, f.svc.Delete(ctx, 4), ErrNotFound)
}

func TestGetTitle_NotFound(t *testing.T) {
	ctx := context.Background()
	f := newTitleFixture()
	f.titles.On("GetByID", ctx, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Get(ctx, 99)

	assert.ErrorIs(t, err, ErrNotFound)
}
