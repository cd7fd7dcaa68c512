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

type CommentHandler struct {
	commentService service.CommentService
	l              *zap.Logger
}

func NewCommentHandler(commentService service.CommentService, l *zap.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, l: l}
}

// RegisterRoutes registers comment routes under a review
func (h *CommentHandler) RegisterRoutes(router *gin.RouterGroup) {
	comments := router.Group("/titles/:title_id/reviews/:review_id/comments",
		middleware.RequirePolicy(permissions.AdminModeratorOwnerOrReadOnlyPolicy))
	{
		comments.GET("/", h.List)
		comments.POST("/", h.Create)
		comments.GET("/:comment_id/", h.Get)
		comments.PATCH("/:comment_id/", h.Update)
		comments.DELETE("/:comment_id/", h.Delete)
	}
}

func commentResponse(cm *models.Comment) dto.CommentResponse { return dto.CommentFromModel(cm) }

// parents reads the title and review ids from the path
func parents(c *gin.Context) (titleID, reviewID int64, ok bool) {
	if titleID, ok = paramID(c, "title_id"); !ok {
		return 0, 0, false
	}
	if reviewID, ok = paramID(c, "review_id"); !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}

// List GET .../comments/ (newest first)
func (h *CommentHandler) List(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	comments, total, err := h.commentService.ListComments(c.Request.Context(), titleID, reviewID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(comments, total, q.Page, q.PageSize, commentResponse))
}

// Create POST .../comments/
func (h *CommentHandler) Create(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	var req dto.CreateCommentDTO
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.commentService.CreateComment(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CommentFromModel(comment))
}

// Get GET .../comments/:comment_id/
func (h *CommentHandler) Get(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	comment, err := h.commentService.GetComment(c.Request.Context(), titleID, reviewID, commentID)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

// Update PATCH .../comments/:comment_id/
func (h *CommentHandler) Update(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	var req dto.UpdateCommentDTO
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.commentService.UpdateComment(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID, req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.CommentFromModel(comment))
}

// Delete DELETE .../comments/:comment_id/
func (h *CommentHandler) Delete(c *gin.Context) {
	titleID, reviewID, ok := parents(c)
	if !ok {
		return
	}
	commentID, ok := paramID(c, "comment_id")
	if !ok {
		return
	}
	if err := h.commentService.DeleteComment(c.Request.Context(), middleware.ActorFrom(c), titleID, reviewID, commentID); err != nil {
		respondError(c, h.l, err)
		return
	}
	c.Status(http.StatusNoContent)
}
