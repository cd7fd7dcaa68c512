package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"
	"yamdb/internal/middleware/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const actorKey = "actor"

// UserLoader loads the user a token was issued to.
type UserLoader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// Authenticate resolves the request actor from an optional bearer token.
// Requests without an Authorization header continue as anonymous. A present
// but invalid token is rejected. The user row is reloaded on every request so
// role and staff changes apply immediately.
func Authenticate(signer auth.TokenSigner, users UserLoader, l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			SetActor(c, permissions.Anonymous())
			c.Next()
			return
		}

		// Extract token (format: "Bearer <token>")
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := signer.Verify(parts[1])
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
				return
			}
			l.Error("load token user", zap.String("user_id", claims.UserID), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		SetActor(c, permissions.FromUser(user))
		c.Next()
	}
}

// SetActor stores the actor for the rest of the request.
func SetActor(c *gin.Context, actor permissions.Actor) {
	c.Set(actorKey, actor)
}

// ActorFrom returns the actor set by Authenticate, anonymous when absent.
func ActorFrom(c *gin.Context) permissions.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(permissions.Actor); ok {
			return a
		}
	}
	return permissions.Anonymous()
}

// RequirePolicy gates a route on a route-level policy decision.
func RequirePolicy(p permissions.Policy) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := permissions.Check(p, c.Request.Method, ActorFrom(c), nil)
		switch {
		case errors.Is(err, permissions.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case err != nil:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			c.Next()
		}
	}
}
