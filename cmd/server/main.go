package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"nlpayroll/internal/app/server"
	"nlpayroll/internal/platform/config"
	"nlpayroll/internal/platform/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.Environment)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.Run(ctx, cfg, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
