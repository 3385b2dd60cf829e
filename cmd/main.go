package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GolovachevS/listings-service/internal/config"
	transport "github.com/GolovachevS/listings-service/internal/http"
	"github.com/GolovachevS/listings-service/internal/logging"
	"github.com/GolovachevS/listings-service/internal/service"
	"github.com/GolovachevS/listings-service/internal/storage"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		logger, lerr := logging.New(logging.Options{})
		if lerr != nil {
			fmt.Fprintf(os.Stderr, "application stopped: %v\n", err)
			os.Exit(1)
		}
		reportFailure(err, os.Stderr, logger)
		_ = logger.Sync()
		os.Exit(1)
	}
}

// reportFailure prints violations as plain lines and logs anything else.
// config check has already printed its own table.
func reportFailure(err error, stderr io.Writer, logger *zap.Logger) {
	var verr *config.ValidationError
	switch {
	case errors.Is(err, errInvalidConfig):
	case errors.As(err, &verr):
		_ = config.Report(stderr, verr)
	default:
		logger.Error("application stopped", zap.Error(err))
	}
}

func run(ctx context.Context, envDir string) error {
	cfg, err := config.Load(envDir, config.FromOS())
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, JSON: cfg.IsProd()})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	switch {
	case cfg.IsProd():
		gin.SetMode(gin.ReleaseMode)
	case cfg.IsTest():
		gin.SetMode(gin.TestMode)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := backend.Close(closeCtx); err != nil {
			logger.Warn("close database", zap.Error(err))
		}
	}()

	svc := service.New(backend.Repo)
	httpServer := transport.NewServer(svc, transport.Options{
		Logger:  logger,
		Limiter: transport.NewTokenBucketLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      httpServer,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("http server started",
			zap.String("addr", srv.Addr),
			zap.String("stage", string(cfg.AppStage)),
			zap.String("backend", backend.Name),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("listen and serve: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	return nil
}
