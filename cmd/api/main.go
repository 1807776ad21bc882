package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ressKim-io/hatecheck/internal/adapter/client"
	"github.com/ressKim-io/hatecheck/internal/adapter/http/router"
	"github.com/ressKim-io/hatecheck/internal/adapter/repository/memory"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/config"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/logger"
	"github.com/ressKim-io/hatecheck/internal/infrastructure/metrics"
	"github.com/ressKim-io/hatecheck/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load(config.FileFromEnv("config.yaml"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	log, err := logger.NewLogger(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	// Set Gin mode
	gin.SetMode(cfg.Server.Mode)

	// Classification service
	classifier := client.NewPredictClassifier(client.NewPredictClient(cfg.Classifier.URL, cfg.Classifier.Timeout))
	log.Info("Using classifier",
		zap.String("url", cfg.Classifier.URL),
		zap.Duration("timeout", cfg.Classifier.Timeout),
	)

	// Sessions
	m := metrics.New(prometheus.DefaultRegisterer)
	sessionUC := usecase.NewSessionUsecase(memory.NewSessionRepository(), classifier, cfg.Classifier.Timeout, log, m)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go sweep(ctx, sessionUC, cfg.Session, log)

	// Setup router
	r := router.Setup(sessionUC, classifier, log)

	// Create HTTP server. Submissions block for up to the classifier timeout.
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: writeTimeout(cfg.Classifier.Timeout),
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("Starting server", zap.String("address", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")
	stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
	return nil
}

// sweep evicts idle sessions until ctx is done
func sweep(ctx context.Context, sessionUC usecase.SessionUsecase, cfg config.SessionConfig, log *zap.Logger) {
	if cfg.Sweep <= 0 || cfg.Idle <= 0 {
		log.Info("Session eviction disabled")
		return
	}

	ticker := time.NewTicker(cfg.Sweep)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessionUC.Sweep(ctx, cfg.Idle); err != nil {
				log.Warn("Session sweep failed", zap.Error(err))
			}
		}
	}
}

func writeTimeout(classifierTimeout time.Duration) time.Duration {
	if classifierTimeout <= 0 {
		return 0
	}
	return classifierTimeout + 10*time.Second
}
