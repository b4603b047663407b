package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"task-manager/internal/application/interfaces"
	"task-manager/internal/application/services"
	"task-manager/internal/config"
	"task-manager/internal/delivery/handler"
	"task-manager/internal/infrastructure"
	"task-manager/internal/infrastructure/db"
	"task-manager/internal/logging"
	"task-manager/internal/messaging"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	ctx := context.Background()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error(ctx, "invalid configuration", "error", err)
		os.Exit(1)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		logger.Error(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}

	tokenService := infrastructure.NewTokenService(cfg.JWTSecret)
	userRepo := db.NewUserRepository(conn, cfg.BcryptCost)
	taskRepo := db.NewTaskRepository(conn)

	var mailer interfaces.Mailer
	if cfg.SendgridAPIKey != "" {
		mailer = infrastructure.NewMailer(cfg.SendgridAPIKey, cfg.EmailSender)
	} else {
		logger.Warn(ctx, "SENDGRID_API_KEY not set, account emails disabled")
	}

	var publisher interfaces.EventPublisher
	if natsPublisher, err := messaging.Connect(cfg.NatsURL); err != nil {
		logger.Warn(ctx, "NATS unavailable, lifecycle events disabled", "error", err)
	} else {
		publisher = natsPublisher
		defer natsPublisher.Close()
	}

	avatarCache := infrastructure.NewRedisService(infrastructure.RedisOptions{
		URL:      cfg.RedisURL,
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	userService := services.NewUserService(userRepo, tokenService, mailer, publisher, avatarCache, logger)
	taskService := services.NewTaskService(taskRepo)

	e := handler.NewRouter(userService, taskService, userRepo, tokenService, logger, handler.RouterConfig{
		RateLimitWindow:      cfg.RateLimitWindow,
		RateLimitMaxRequests: cfg.RateLimitMaxRequests,
	})

	go func() {
		logger.Info(ctx, "server listening", "port", cfg.Port)
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "server stopped", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error(ctx, "graceful shutdown failed", "error", err)
	}
}
