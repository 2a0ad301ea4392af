package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/yanqian/natal-chart/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New().With("component", "main")

	app, err := initializeApp()
	if err != nil {
		log.Error("failed to wire application", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error("application stopped with error", "error", err)
		os.Exit(1)
	}
	log.Info("natal chart service stopped")
}
