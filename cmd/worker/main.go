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

	w, err := app.NewWorker(ctx, log)
	if err != nil {
		log.Error("Failed to init worker", "error", err)
		log.Sync()
		os.Exit(1)
	}
	defer w.Close()

	if err := w.Run(ctx); err != nil {
		log.Error("Worker stopped with error", "error", err)
		w.Close()
		os.Exit(1)
	}
	log.Info("Worker stopped")
}
