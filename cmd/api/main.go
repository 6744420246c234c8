package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/yungbote/trainermatch-backend/internal/app"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

func main() {
	if err := app.LoadDotEnv(); err != nil {
		fmt.Printf("Failed to load .env: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(app.LogModeFromEnv())
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("Server stopped with error", "error", err)
		a.Close()
		os.Exit(1)
	}
	log.Info("Server stopped")
}
