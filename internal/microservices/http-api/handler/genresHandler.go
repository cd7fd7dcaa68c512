package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type GenreHandler struct {
	genreService service.GenreService
	l            *zap.Logger
}

func NewGenreHandler(genreService service.GenreService, l *zap.Logger) *GenreHandler {
	return &GenreHandler{genreService: genreService, l: l}
}

// RegisterRoutes registers /genres routes; reads are public, writes admin only
func (h *GenreHandler) RegisterRoutes(router *gin.RouterGroup) {
	genres := router.Group("/genres", middleware.RequirePolicy(permissions.AdminOrReadOnlyPolicy))
	{
		genres.GET("/", h.List)
		genres.POST("/", h.Create)
		genres.DELETE("/:slug/", h.Delete)
	}
}

func genreResponse(g *models.Genre) dto.SlugResponse { return dto.GenreFromModel(*g) }

// List GET /api/v1/genres/?search=
func (h *GenreHandler) List(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	genres, total, err := h.genreService.List(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(genres, total, q.Page, q.PageSize, genreResponse))
}

// Create POST /api/v1/genres/
func (h *GenreHandler) Create(c *gin.Context) {
	var req dto.CreateSlugDTO
	if !bindJSON(c, &req) {
		return
	}
	genre, err := h.genreService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusCreated, dto.GenreFromModel(*genre))
}

// Delete DELETE /api/v1/genres/:slug/
func (h *GenreHandler) Delete(c *gin.Context) {
	if err := h.genreService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, h.l, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type CategoryHandler struct {
	categoryService service.CategoryService
	l               *zap.Logger
}

func NewCategoryHandler(categoryService service.CategoryService, l *zap.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, l: l}
}

// RegisterRoutes registers /categories routes; reads are public, writes admin only
func (h *CategoryHandler) RegisterRoutes(router *gin.RouterGroup) {
	categories := router.Group("/categories", middleware.RequirePolicy(permissions.AdminOrReadOnlyPolicy))
	{
		categories.GET("/", h.List)
		categories.POST("/", h.Create)
		categories.DELETE("/:slug/", h.Delete)
	}
}

func categoryResponse(c *models.Category) dto.SlugResponse { return dto.CategoryFromModel(*c) }

// List GET /api/v1/categories/?search=
func (h *CategoryHandler) List(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	categories, total, err := h.categoryService.List(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(categories, total, q.Page, q.PageSize, categoryResponse))
}

// Create POST /api/v1/categories/
func (h *CategoryHandler) Create(c *gin.Context) {
	var req dto.CreateSlugDTO
	if !bindJSON(c, &req) {
		return
	}
	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CategoryFromModel(*category))
}

// Delete DELETE /api/v1/categories/:slug/
func (h *CategoryHandler) Delete(c *gin.Context) {
	if err := h.categoryService.Delete(c.Request.Context(), c.Param("slug")); err != nil {
		respondError(c, h.l, err)
		return
	}
	c.Status(http.StatusNoContent)
}
