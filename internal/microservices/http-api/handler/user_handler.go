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

type UserHandler struct {
	userService service.UserService
	l           *zap.Logger
}

func NewUserHandler(userService service.UserService, l *zap.Logger) *UserHandler {
	return &UserHandler{userService: userService, l: l}
}

// RegisterRoutes registers /users routes. /users/me/ only needs a token, the
// rest is admin only.
func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")

	me := users.Group("/me", middleware.RequirePolicy(permissions.AuthenticatedPolicy))
	{
		me.GET("/", h.Me)
		me.PATCH("/", h.UpdateMe)
	}

	admin := users.Group("", middleware.RequirePolicy(permissions.AdminOnlyPolicy))
	{
		admin.GET("/", h.List)
		admin.POST("/", h.Create)
		admin.GET("/:username/", h.Get)
		admin.PATCH("/:username/", h.Update)
		admin.DELETE("/:username/", h.Delete)
	}
}

func userResponse(u *models.User) dto.UserResponse { return dto.UserFromModel(u) }

// List GET /api/v1/users/?search=
func (h *UserHandler) List(c *gin.Context) {
	q, ok := pageQuery(c)
	if !ok {
		return
	}
	users, total, err := h.userService.List(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginated(users, total, q.Page, q.PageSize, userResponse))
}

// Create POST /api/v1/users/
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserDTO
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusCreated, dto.UserFromModel(user))
}

// Get GET /api/v1/users/:username/
func (h *UserHandler) Get(c *gin.Context) {
	user, err := h.userService.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

// Update PATCH /api/v1/users/:username/
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserDTO
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), c.Param("username"), req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

// Delete DELETE /api/v1/users/:username/
func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.userService.Delete(c.Request.Context(), c.Param("username")); err != nil {
		respondError(c, h.l, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Me GET /api/v1/users/me/
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.ActorFrom(c))
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}

// UpdateMe PATCH /api/v1/users/me/ (role is read-only here)
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserDTO
	if !bindJSON(c, &req) {
		return
	}
	user, err := h.userService.UpdateMe(c.Request.Context(), middleware.ActorFrom(c), req)
	if err != nil {
		respondError(c, h.l, err)
		return
	}
	c.JSON(http.StatusOK, dto.UserFromModel(user))
}
