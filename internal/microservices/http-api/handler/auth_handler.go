package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler handles signup and confirmation-code exchange
type AuthHandler struct {
	authService service.AuthService
	l           *zap.Logger
}

func NewAuthHandler(authService service.AuthService, l *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, l: l}
}

// RegisterRoutes registers the public auth routes on router (the /auth group)
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/signup/", h.Signup)
	router.POST("/token/", h.Token)
}

// Signup creates a pending user or resends the code for a known pair
// POST /api/v1/auth/signup/
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.authService.Signup(c.Request.Context(), req.Username, req.Email)
	if err != nil {
		respondError(c, h.l, err)
		return
	}

	c.JSON(http.StatusOK, dto.SignupResponse{Username: user.Username, Email: user.Email})
}

// Token exchanges a confirmation code for an access token
// POST /api/v1/auth/token/
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	token, err := h.authService.ObtainToken(c.Request.Context(), req.Username, req.ConfirmationCode)
	if err != nil {
		respondError(c, h.l, err)
		return
	}

	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}
