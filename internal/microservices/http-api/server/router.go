// Package server assembles the HTTP API: repositories, services, handlers
// and the gin engine they are mounted on.
package server

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/middleware/auth"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers are the route groups mounted under /api/v1.
type Handlers struct {
	Auth       *handler.AuthHandler
	Users      *handler.UserHandler
	Categories *handler.CategoryHandler
	Genres     *handler.GenreHandler
	Titles     *handler.TitleHandler
	Reviews    *handler.ReviewHandler
	Comments   *handler.CommentHandler
}

// HealthFunc reports whether the service can serve requests.
type HealthFunc func(ctx context.Context) error

// NewRouter builds the gin engine. authn resolves the request actor.
func NewRouter(cfg *config.Config, l *zap.Logger, authn gin.HandlerFunc, health HealthFunc, h Handlers) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(l.Named("http")))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.PrometheusEnabled {
		r.Use(middleware.Metrics())
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := health(ctx); err != nil {
			l.Warn("health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1", authn)

	authGroup := api.Group("/auth",
		middleware.RateLimit(middleware.NewIPRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)))
	h.Auth.RegisterRoutes(authGroup)

	h.Users.RegisterRoutes(api)
	h.Categories.RegisterRoutes(api)
	h.Genres.RegisterRoutes(api)
	h.Titles.RegisterRoutes(api)
	h.Reviews.RegisterRoutes(api)
	h.Comments.RegisterRoutes(api)

	return r
}

// Build wires the full application on top of an open database.
func Build(cfg *config.Config, db *gorm.DB, l *zap.Logger, notifier service.Notifier, limiter service.SignupLimiter) (*gin.Engine, error) {
	signer, err := auth.NewJWTSigner(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepo(db)
	genreRepo := repository.NewGenreRepo(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	opts := service.OptionsFromConfig(cfg)
	authService, err := service.NewAuthService(userRepo, auth.RandomCodeGenerator{}, signer, notifier, limiter, opts, l)
	if err != nil {
		return nil, err
	}
	userService, err := service.NewUserService(userRepo, opts)
	if err != nil {
		return nil, err
	}

	hl := l.Named("handler")
	handlers := Handlers{
		Auth:       handler.NewAuthHandler(authService, hl),
		Users:      handler.NewUserHandler(userService, hl),
		Categories: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo), hl),
		Genres:     handler.NewGenreHandler(service.NewGenreService(genreRepo), hl),
		Titles:     handler.NewTitleHandler(service.NewTitleService(titleRepo, genreRepo, categoryRepo), hl),
		Reviews:    handler.NewReviewHandler(service.NewReviewService(reviewRepo, titleRepo), hl),
		Comments:   handler.NewCommentHandler(service.NewCommentService(commentRepo, reviewRepo), hl),
	}

	health := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}

	authn := middleware.Authenticate(signer, userRepo, l.Named("auth"))
	return NewRouter(cfg, l, authn, health, handlers), nil
}
