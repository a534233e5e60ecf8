package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sanyaade-fintechnology/aiotrade/app/service"
	"github.com/sanyaade-fintechnology/aiotrade/pkg/config"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	svc, err := service.Init(ctx, *cfg)
	if err != nil {
		slog.Error("Failed to init service", "error", err)
		os.Exit(1)
	}

	svc.Run(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down market data cache...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	svc.Shutdown(shutdownCtx)

	slog.Info("Market data cache stopped")
}
