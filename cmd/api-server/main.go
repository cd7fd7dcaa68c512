package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/database"
	"yamdb/internal/config"
	"yamdb/internal/logger"
	"yamdb/internal/microservices/http-api/server"
	"yamdb/internal/microservices/http-api/service"
	"yamdb/internal/notify"
	"yamdb/internal/throttle"

	"go.uber.org/zap"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	l, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer l.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to the database (runs migrations)
	db, err := database.ConnectDB(ctx, cfg, l.Named("db"))
	if err != nil {
		return err
	}
	defer database.Close(db)

	// 3. Signup throttle, Redis when configured
	var limiter service.SignupLimiter = throttle.Noop{}
	if cfg.RedisURL != "" {
		rdb, err := throttle.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			return err
		}
		defer rdb.Close()
		limiter = throttle.NewRedisLimiter(rdb, cfg.SignupThrottleLimit, cfg.SignupThrottleWindow)
		l.Info("signup throttle enabled", zap.Int("limit", cfg.SignupThrottleLimit), zap.Duration("window", cfg.SignupThrottleWindow))
	}

	// 4. Notifier, SMTP when configured
	var mailer notify.Notifier = notify.NewLogMailer(l.Named("mail"))
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPFrom, cfg.SMTPPassword)
	}
	notifier := notify.NewAsync(mailer, l.Named("notify"))

	// 5. HTTP server
	router, err := server.Build(cfg, db, l, notifier, limiter)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("server listening", zap.String("addr", srv.Addr), zap.String("env", cfg.GoEnv))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	l.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("http shutdown", zap.Error(err))
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		l.Warn("pending notifications dropped", zap.Error(err))
	}
	return nil
}
