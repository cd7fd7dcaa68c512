package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TitleHandler struct {
	titleService service.TitleService
	l            *zap.Logger
}

func NewTitleHandler(titleService service.TitleService, l *zap.Logger) *TitleHandler {
	return &TitleHandler{titleService: titleService, l: l}
}

// RegisterRoutes registers /titles routes; reads are public, writes admin only
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) {
	titles := router.Group("/titles", middleware.RequirePolicy(permissions.AdminOrReadOnlyPolicy))
	{
		titles.GET("/", h.List)
		titles.POST("/", h.Create)
		titles.GET("/:title_id/", h.Get)
		titles.PATCH("/:title_id/", h.Update)
		titles.DELETE("/:title_id/", h.Delete)
	}
}

// List GET /api/v1/titles/?genre=&category=&name=&year=
func (h *TitleHandler) List(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	var f dto.TitleQuery
	if err := c.ShouldBindQuery(&f); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"year": []string{"a valid integer is required"}})
		return
	}

	filter := repository.TitleFilter{Genre: f.Genre, Category: f.Category, Name: f.Name, Year: f.Year}
	titles, total, err := h.titleService.List(c.Request.Context(), filter, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(titles, total, q.Page, q.PageSize, dto.TitleFromModel))
}

// Create POST /api/v1/titles/
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleDTO
	if !bindJSON(c, &req) {
		return
	}
	title, err := h.titleService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusCreated, dto.TitleFromModel(title))
}

// Get GET /api/v1/titles/:title_id/
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	title, err := h.titleService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(title))
}

// Update PATCH /api/v1/titles/:title_id/
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.UpdateTitleDTO
	if !bindJSON(c, &req) {
		return
	}
	title, err := h.titleService.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.TitleFromModel(title))
}

// Delete DELETE /api/v1/titles/:title_id/ (reviews and comments go with it)
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	if err := h.titleService.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.l, err)
		return
	}
	c.Status(http.StatusNoContent)
}
