// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/bashkirian/cutline-analytics/internal/config"
	"github.com/bashkirian/cutline-analytics/internal/session"
	"github.com/bashkirian/cutline-analytics/pkg/server"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	if cfg.Redis.Addr != "" {
		logger.Info("using redis session store", zap.String("addr", cfg.Redis.Addr))
	} else {
		logger.Info("using in-memory session store")
	}

	srv := server.New(cfg, logger)

	// Bring up a session before traffic arrives: restore the persisted one if
	// any, otherwise acquire fresh (feed or synthetic fallback).
	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	if err := srv.Manager().Restore(startupCtx); err != nil {
		logger.Warn("could not restore persisted session", zap.Error(err))
	}
	if srv.Manager().Current() == nil {
		if _, err := srv.Manager().Refresh(startupCtx); err != nil &&
			!errors.Is(err, session.ErrSuperseded) {
			logger.Warn("initial session acquisition failed", zap.Error(err))
		}
	}
	cancelStartup()

	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed to start", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server shutdown complete")
}
