package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"serenity-backend/internal/config"
	"serenity-backend/internal/database"
	"serenity-backend/internal/handlers"
	"serenity-backend/internal/middleware"
	"serenity-backend/internal/repository"
	"serenity-backend/internal/router"
	"serenity-backend/internal/services"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()

	// ──── Step 2: Open SQLite and apply schema ────
	db, err := database.NewSQLite(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("failed to initialize database",
			zap.Error(err),
			zap.String("path", cfg.DatabasePath))
	}
	defer db.Close()
	logger.Info("database ready", zap.String("path", cfg.DatabasePath))

	// ──── Step 3: Connect Redis (session store) ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to connect Redis", zap.Error(err))
	}
	defer redisClient.Close()
	logger.Info("redis connected")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(db)
	chatRepo := repository.NewChatRepo(db)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	sessionStore := services.NewRedisSessionStore(redisClient)
	authService := services.NewAuthService(userRepo, sessionStore, jwtAuth)
	completionClient := services.NewCompletionClient(
		cfg.OpenRouterBaseURL,
		cfg.OpenRouterAPIKey,
		cfg.OpenRouterModel,
		time.Duration(cfg.UpstreamTimeout)*time.Second,
		logger,
	)

	// ──── Initialize Handlers ────
	secureCookies := cfg.Env == "production"
	authHandler := handlers.NewAuthHandler(authService, jwtAuth, logger, secureCookies)
	chatHandler := handlers.NewChatHandler(chatRepo, completionClient, logger)
	pageHandler := handlers.NewPageHandler(logger)

	// ──── Start HTTP Server ────
	r := router.New(jwtAuth, authHandler, chatHandler, pageHandler, cfg.FrontendURL)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	logger.Info("serenity backend ready", zap.String("addr", server.Addr))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
