package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/trainermatch-backend/internal/data/db"
	"github.com/yungbote/trainermatch-backend/internal/http"
	"github.com/yungbote/trainermatch-backend/internal/jobs/worker"
	"github.com/yungbote/trainermatch-backend/internal/observability"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

// App is the API process: one DB pool, one queue producer and the HTTP server.
// With the in-memory queue it also runs the notification worker, since no
// other process can consume that queue.
type App struct {
	Log      *logger.Logger
	Cfg      Config
	DB       *db.Service
	Repos    Repos
	Clients  Clients
	Services Services
	Server   *http.Server
	Worker   *worker.Worker

	shutdownTracing func(context.Context) error
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	log.Info("Loading environment variables...")
	cfg := LoadConfig(log, "trainermatch-api")
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
	bucket, err := wireBucket(log)
	if err != nil {
		_ = q.Close()
		_ = dbService.Close()
		_ = shutdownTracing(ctx)
		return nil, err
	}
	clients := Clients{Queue: q, Bucket: bucket}

	theDB := dbService.DB()
	reposet := wireRepos(theDB, log)

	var embedded *worker.Worker
	if usesMemoryQueue(cfg.Redis) {
		log.Info("Running embedded notification worker")
		embedded, err = wireWorker(log, cfg, theDB, reposet.NotificationJob, &clients)
		if err != nil {
			clients.Close(log)
			_ = dbService.Close()
			_ = shutdownTracing(ctx)
			return nil, err
		}
	}

	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, serviceset, dbService)
	middleware := wireMiddleware(log, serviceset)

	return &App{
		Log:             log,
		Cfg:             cfg,
		DB:              dbService,
		Repos:           reposet,
		Clients:         clients,
		Services:        serviceset,
		Server:          wireServer(log, cfg, handlerset, middleware),
		Worker:          embedded,
		shutdownTracing: shutdownTracing,
	}, nil
}

func openDB(log *logger.Logger, cfg Config) (*db.Service, error) {
	dbService, err := db.NewService(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbService.Migrate(); err != nil {
		_ = dbService.Close()
		return nil, fmt.Errorf("database automigrate: %w", err)
	}
	return dbService, nil
}

// Run serves HTTP, and the embedded worker when there is one, until ctx is
// cancelled or either stops with an error.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	g, gctx := errgroup.WithContext(ctx)
	if a.Worker != nil {
		g.Go(func() error {
			if err := a.Worker.Run(gctx); err != nil {
				return fmt.Errorf("embedded worker: %w", err)
			}
			return nil
		})
	}
	g.Go(func() error {
		a.Log.Info("HTTP server listening", "address", a.Cfg.Address())
		return a.Server.Run(gctx, a.Cfg.Address(), a.Cfg.ShutdownTimeout)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close(a.Log)
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.Log.Warn("Database close failed", "error", err)
		}
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), a.Cfg.ShutdownTimeout)
		defer cancel()
		if err := a.shutdownTracing(ctx); err != nil {
			a.Log.Warn("Tracing shutdown failed", "error", err)
		}
	}
	a.Log.Sync()
}
