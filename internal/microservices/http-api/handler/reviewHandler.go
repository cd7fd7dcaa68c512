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

type ReviewHandler struct {
	reviewService service.ReviewService
	l             *zap.Logger
}

func NewReviewHandler(reviewService service.ReviewService, l *zap.Logger) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, l: l}
}

// RegisterRoutes registers review routes. The route-level policy only asks
// writers to be authenticated; ownership is checked by the service.
func (h *ReviewHandler) RegisterRoutes(router *gin.RouterGroup) {
	reviews := router.Group("/titles/:title_id/reviews",
		middleware.RequirePolicy(permissions.AdminModeratorOwnerOrReadOnlyPolicy))
	{
		reviews.GET("/", h.List)
		reviews.POST("/", h.Create)
		reviews.GET("/:review_id/", h.Get)
		reviews.PATCH("/:review_id/", h.Update)
		reviews.DELETE("/:review_id/", h.Delete)
	}
}

func reviewResponse(r *models.Review) dto.ReviewResponse { return dto.ReviewFromModel(r) }

// List GET /api/v1/titles/:title_id/reviews/ (newest first)
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	reviews, total, err := h.reviewService.ListReviews(c.Request.Context(), titleID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(reviews, total, q.Page, q.PageSize, reviewResponse))
}

// Create POST /api/v1/titles/:title_id/reviews/
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.CreateReviewDTO
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.reviewService.CreateReview(c.Request.Context(), middleware.ActorFrom(c), titleID, req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ReviewFromModel(review))
}

// Get GET /api/v1/titles/:title_id/reviews/:review_id/
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	review, err := h.reviewService.GetReview(c.Request.Context(), titleID, reviewID)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(review))
}

// Update PATCH /api/v1/titles/:title_id/reviews/:review_id/
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	var req dto.UpdateReviewDTO
	if !bindJSON(c, &req) {
		return
	}
	review, err := h.reviewService.UpdateReview(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.ReviewFromModel(review))
}

// Delete DELETE /api/v1/titles/:title_id/reviews/:review_id/
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID); err != nil {
		respondError(c, h.l, err)
		return
	}
	c.Status(http.StatusNoContent)
}
