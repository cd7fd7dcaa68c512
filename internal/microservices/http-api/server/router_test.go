package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/permissions"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestRouter mounts handlers without services; only requests stopped by
// middleware may be sent to it.
func newTestRouter(actor permissions.Actor, health HealthFunc) *gin.Engine {
	cfg := &config.Config{
		AuthRateLimit: 1,
		AuthRateBurst: 5,
		CORSOrigins:   []string{"http://localhost:3000"},
	}
	l := zap.NewNop()
	h := Handlers{
		Auth:       handler.NewAuthHandler(nil, l),
		Users:      handler.NewUserHandler(nil, l),
		Categories: handler.NewCategoryHandler(nil, l),
		Genres:     handler.NewGenreHandler(nil, l),
		Titles:     handler.NewTitleHandler(nil, l),
		Reviews:    handler.NewReviewHandler(nil, l),
		Comments:   handler.NewCommentHandler(nil, l),
	}
	authn := func(c *gin.Context) {
		middleware.SetActor(c, actor)
		c.Next()
	}
	return NewRouter(cfg, l, authn, health, h)
}

func serve(r http.Handler, method, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestHealth(t *testing.T) {
	up := newTestRouter(permissions.Anonymous(), func(context.Context) error { return nil })
	assert.Equal(t, http.StatusOK, serve(up, http.MethodGet, "/health"))

	down := newTestRouter(permissions.Anonymous(), func(context.Context) error { return errors.New("db down") })
	assert.Equal(t, http.StatusServiceUnavailable, serve(down, http.MethodGet, "/health"))
}

func TestRouteGating(t *testing.T) {
	ok := func(context.Context) error { return nil }
	user := permissions.Actor{UserID: "u-1", Username: "alice", Role: models.RoleUser}
	moderator := permissions.Actor{UserID: "u-2", Username: "mod", Role: models.RoleModerator}

	cases := []struct {
		name   string
		actor  permissions.Actor
		method string
		path   string
		status int
	}{
		{"anonymous user list", permissions.Anonymous(), http.MethodGet, "/api/v1/users/", http.StatusUnauthorized},
		{"user list needs admin", user, http.MethodGet, "/api/v1/users/", http.StatusForbidden},
		{"moderator is not admin", moderator, http.MethodGet, "/api/v1/users/", http.StatusForbidden},
		{"anonymous me", permissions.Anonymous(), http.MethodGet, "/api/v1/users/me/", http.StatusUnauthorized},
		{"genre create", user, http.MethodPost, "/api/v1/genres/", http.StatusForbidden},
		{"category delete", moderator, http.MethodDelete, "/api/v1/categories/film/", http.StatusForbidden},
		{"title update", user, http.MethodPatch, "/api/v1/titles/1/", http.StatusForbidden},
		{"anonymous review", permissions.Anonymous(), http.MethodPost, "/api/v1/titles/1/reviews/", http.StatusUnauthorized},
		{"anonymous comment", permissions.Anonymous(), http.MethodPost, "/api/v1/titles/1/reviews/2/comments/", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(tc.actor, ok)
			assert.Equal(t, tc.status, serve(r, tc.method, tc.path))
		})
	}
}
