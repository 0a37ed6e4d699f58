package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"social-lens-go/pkg/api"
	"social-lens-go/pkg/config"
	"social-lens-go/pkg/db"
	"social-lens-go/pkg/llm/openai"
	"social-lens-go/pkg/logging"
)

func main() {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("failed to load config")
	}

	ctx := context.Background()

	// Run migrations before opening the pool
	if dir := os.Getenv("MIGRATIONS_DIR"); dir != "" {
		if err := db.RunMigrations(logger, dir, cfg.Database.URL); err != nil {
			logger.WithError(err).Fatal("failed to run migrations")
		}
	}

	// Initialize database
	database, err := db.New(ctx, cfg.Database.URL)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}
	defer database.Close()

	// Initialize LLM client
	llmConfig, err := openai.NewConfig(logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to configure LLM client")
	}
	llmConfig.Model = cfg.OpenAI.Model
	llmConfig.Temperature = cfg.OpenAI.Temperature
	llmConfig.MaxTokens = cfg.OpenAI.MaxTokens

	model, err := openai.NewClient(llmConfig)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize LLM client")
	}

	// Initialize router
	router := api.NewRouter(database, cfg, model, logger)

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // webhook handling materializes datasets synchronously
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.WithField("addr", srv.Addr).Info("API server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Fatal("server forced to shutdown")
	}

	logger.Info("server exited")
}
