package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/pep299/lessonfeed/internal/application"
	"github.com/pep299/lessonfeed/internal/logging"
	"github.com/pep299/lessonfeed/internal/transport/server"
)

func main() {
	// Create application (loads configuration)
	app, err := application.New()
	if err != nil {
		logging.NewDefault("info").Fatal("Failed to create application", zap.Error(err))
	}
	defer app.Close()

	logger := app.Logger
	httpServer := server.New(app)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Keep the news cache warm on a schedule
	c := cron.New()
	if schedule := app.Config.NewsPrefetchSchedule; schedule != "" {
		_, err := c.AddFunc(schedule, func() {
			if err := app.WarmNews(ctx); err != nil {
				logger.Warn("Scheduled news prefetch incomplete", zap.Error(err))
			}
		})
		if err != nil {
			logger.Fatal("Invalid NEWS_PREFETCH_SCHEDULE", zap.String("schedule", schedule), zap.Error(err))
		}
		logger.Info("Scheduled news prefetch", zap.String("schedule", schedule))
	}
	c.Start()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server
	go func() {
		logger.Info("Starting server", zap.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info("Shutting down server")

	// Cancel background tasks
	cancel()
	<-c.Stop().Done()

	// Shutdown HTTP server
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", zap.Error(err))
	}

	logger.Info("Server stopped")
}
