package app

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/db"
	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	"github.com/yungbote/trainermatch-backend/internal/jobs/channels"
	"github.com/yungbote/trainermatch-backend/internal/jobs/runtime"
	"github.com/yungbote/trainermatch-backend/internal/jobs/worker"
	"github.com/yungbote/trainermatch-backend/internal/observability"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

// WorkerApp is the notification worker process.
type WorkerApp struct {
	Log     *logger.Logger
	Cfg     Config
	DB      *db.Service
	Clients Clients
	Worker  *worker.Worker

	shutdownTracing func(context.Context) error
}

// NewWorker builds the standalone worker. It needs Redis: an in-memory queue
// would only see its own process, so without REDIS_ADDR the API runs an
// embedded worker instead.
func NewWorker(ctx context.Context, log *logger.Logger) (*WorkerApp, error) {
	cfg := LoadConfig(log, "trainermatch-worker")
	if usesMemoryQueue(cfg.Redis) {
		return nil, fmt.Errorf("REDIS_ADDR is required for the standalone worker; without it the API process runs the worker")
	}
	shutdownTracing := observability.InitOTel(ctx, log, cfg.Otel)

	dbService, err := openDB(log, cfg)
	if err != nil {
		_ = shutdownTracing(ctx)
		return nil, err
	}
	q, err := wireQueue(log, cfg.Redis)
	if err != nil {
		_ = dbService.Close()
		_ = shutdownTracing(ctx)
		return nil, err
	}
	clients := Clients{Queue: q}

	theDB := dbService.DB()
	reposet := wireRepos(theDB, log)
	w, err := wireWorker(log, cfg, theDB, reposet.NotificationJob, &clients)
	if err != nil {
		clients.Close(log)
		_ = dbService.Close()
		_ = shutdownTracing(ctx)
		return nil, err
	}
	return &WorkerApp{
		Log:             log,
		Cfg:             cfg,
		DB:              dbService,
		Clients:         clients,
		Worker:          w,
		shutdownTracing: shutdownTracing,
	}, nil
}

// wireWorker attaches the delivery providers to c and builds a worker that
// consumes c.Queue.
func wireWorker(log *logger.Logger, cfg Config, theDB *gorm.DB, repo repos.NotificationJobRepo, c *Clients) (*worker.Worker, error) {
	c.Mail, c.SMS = wireSenders(log)
	registry := runtime.NewRegistry()
	if err := channels.RegisterDefaults(registry, log, c.Mail, c.SMS); err != nil {
		return nil, fmt.Errorf("register channels: %w", err)
	}
	return worker.NewWorker(theDB, log, repo, c.Queue, registry, cfg.Worker), nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w == nil || w.Worker == nil {
		return fmt.Errorf("worker not initialized")
	}
	return w.Worker.Run(ctx)
}

func (w *WorkerApp) Close() {
	if w == nil {
		return
	}
	w.Clients.Close(w.Log)
	if w.DB != nil {
		if err := w.DB.Close(); err != nil {
			w.Log.Warn("Database close failed", "error", err)
		}
	}
	if w.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), w.Cfg.ShutdownTimeout)
		defer cancel()
		if err := w.shutdownTracing(ctx); err != nil {
			w.Log.Warn("Tracing shutdown failed", "error", err)
		}
	}
	w.Log.Sync()
}
