package dto

import "yamdb/internal/microservices/http-api/models"

// CreateSlugDTO for POST /genres/ and POST /categories/
type CreateSlugDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

// SlugResponse is the shared shape of a genre or a category
type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (d CreateSlugDTO) ToGenre() models.Genre {
	return models.Genre{Name: d.Name, Slug: d.Slug}
}

func (d CreateSlugDTO) ToCategory() models.Category {
	return models.Category{Name: d.Name, Slug: d.Slug}
}

func GenreFromModel(g models.Genre) SlugResponse {
	return SlugResponse{Name: g.Name, Slug: g.Slug}
}

func CategoryFromModel(c models.Category) SlugResponse {
	return SlugResponse{Name: c.Name, Slug: c.Slug}
}
