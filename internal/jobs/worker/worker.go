package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/jobs/queue"
	"github.com/yungbote/trainermatch-backend/internal/jobs/runtime"
	"github.com/yungbote/trainermatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/envutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type Config struct {
	Concurrency  int
	PollInterval time.Duration
	SendTimeout  time.Duration
	// Lease is how long a silent worker keeps its in-flight jobs. Heartbeats
	// run every Lease/3.
	Lease time.Duration
}

func ConfigFromEnv() Config {
	return Config{
		Concurrency:  envutil.Int("WORKER_CONCURRENCY", 1),
		PollInterval: envutil.Seconds("WORKER_POLL_SECONDS", 5*time.Second),
		SendTimeout:  envutil.Seconds("WORKER_SEND_TIMEOUT_SECONDS", 60*time.Second),
		Lease:        envutil.Seconds("WORKER_LEASE_SECONDS", 90*time.Second),
	}
}

type Worker struct {
	db       *gorm.DB
	log      *logger.Logger
	repo     repos.NotificationJobRepo
	queue    queue.Queue
	registry *runtime.Registry
	cfg      Config

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
}

func NewWorker(db *gorm.DB, baseLog *logger.Logger, repo repos.NotificationJobRepo, q queue.Queue, registry *runtime.Registry, cfg Config) *Worker {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = 60 * time.Second
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 90 * time.Second
	}
	return &Worker{
		db:       db,
		log:      baseLog.With("component", "NotificationWorker"),
		repo:     repo,
		queue:    q,
		registry: registry,
		cfg:      cfg,
		inflight: map[uuid.UUID]struct{}{},
	}
}

// Run consumes until ctx is cancelled or the queue is closed. Alongside the
// consumers it heartbeats this worker's lease and reclaims work abandoned by
// workers whose lease expired.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.beat(ctx); err != nil {
		return fmt.Errorf("worker heartbeat: %w", err)
	}
	if err := w.reclaim(ctx); err != nil {
		return err
	}

	w.log.Info("Starting notification worker",
		"concurrency", w.cfg.Concurrency,
		"poll", w.cfg.PollInterval.String(),
		"lease", w.cfg.Lease.String(),
		"channels", w.registry.Types(),
	)

	g, gctx := errgroup.WithContext(ctx)
	beatCtx, stopBeat := context.WithCancel(gctx)
	beatDone := make(chan struct{})
	go func() {
		defer close(beatDone)
		w.heartbeatLoop(beatCtx)
	}()

	for i := 0; i < w.cfg.Concurrency; i++ {
		workerID := i + 1
		g.Go(func() error {
			w.runLoop(gctx, workerID)
			return nil
		})
	}
	err := g.Wait()
	stopBeat()
	<-beatDone
	return err
}

func (w *Worker) heartbeatLoop(ctx context.Context) {
	interval := w.cfg.Lease / 3
	if interval < time.Millisecond {
		interval = time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := w.beat(ctx); err != nil {
			if errors.Is(err, queue.ErrClosed) || ctx.Err() != nil {
				return
			}
			w.log.Warn("Heartbeat failed", "error", err)
			continue
		}
		if err := w.reclaim(ctx); err != nil && ctx.Err() == nil {
			w.log.Warn("Reclaim failed", "error", err)
		}
	}
}

// beat refreshes job heartbeats before the consumer lease, so a consumer
// lease never outlives the heartbeats of the jobs it holds.
func (w *Worker) beat(ctx context.Context) error {
	if err := w.repo.Heartbeat(dbctx.Context{Ctx: ctx}, w.inflightIDs()); err != nil {
		return fmt.Errorf("job heartbeat: %w", err)
	}
	return w.queue.Heartbeat(ctx, w.cfg.Lease)
}

func (w *Worker) reclaim(ctx context.Context) error {
	if n, err := w.repo.ResetStale(dbctx.Context{Ctx: ctx}, w.staleBefore()); err != nil {
		return fmt.Errorf("reset stale jobs: %w", err)
	} else if n > 0 {
		w.log.Warn("Reset abandoned notification jobs", "count", n)
	}
	if n, err := w.queue.RequeueInflight(ctx); err != nil {
		return fmt.Errorf("requeue inflight: %w", err)
	} else if n > 0 {
		w.log.Warn("Requeued deliveries from expired workers", "count", n)
	}
	return nil
}

func (w *Worker) staleBefore() time.Time {
	return time.Now().UTC().Add(-w.cfg.Lease)
}

func (w *Worker) track(id uuid.UUID) {
	w.mu.Lock()
	w.inflight[id] = struct{}{}
	w.mu.Unlock()
}

func (w *Worker) untrack(id uuid.UUID) {
	w.mu.Lock()
	delete(w.inflight, id)
	w.mu.Unlock()
}

func (w *Worker) inflightIDs() []uuid.UUID {
	w.mu.Lock()
	defer w.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(w.inflight))
	for id := range w.inflight {
		ids = append(ids, id)
	}
	return ids
}

func (w *Worker) runLoop(ctx context.Context, workerID int) {
	for {
		if ctx.Err() != nil {
			w.log.Info("Worker loop stopped", "worker_id", workerID)
			return
		}
		d, err := w.queue.Dequeue(ctx, w.cfg.PollInterval)
		switch {
		case err == nil:
			w.handle(ctx, workerID, d)
		case errors.Is(err, queue.ErrEmpty):
		case errors.Is(err, queue.ErrClosed):
			w.log.Info("Queue closed; worker loop exiting", "worker_id", workerID)
			return
		case ctx.Err() != nil:
		default:
			w.log.Warn("Dequeue failed", "worker_id", workerID, "error", err)
			select {
			case <-ctx.Done():
			case <-time.After(w.cfg.PollInterval):
			}
		}
	}
}

func (w *Worker) handle(ctx context.Context, workerID int, d *queue.Delivery) {
	msg := d.Message
	jctx := ctxutil.WithTraceData(ctx, &ctxutil.TraceData{TraceID: msg.TraceID, RequestID: msg.RequestID})
	dbc := dbctx.Context{Ctx: jctx}
	log := w.log.With("worker_id", workerID, "job_id", msg.JobID, "trace_id", msg.TraceID)

	job, outcome, err := w.repo.Claim(dbc, msg.JobID, w.staleBefore())
	if err != nil {
		// left in flight; reclaimed once this worker's lease expires
		log.Error("Claim failed", "error", err)
		return
	}
	switch outcome {
	case repos.ClaimSkipped:
		log.Warn("Job missing or already handled; dropping delivery")
		w.ack(jctx, log, d)
		return
	case repos.ClaimBusy:
		w.redeliverLater(jctx, log, d)
		return
	}
	w.track(job.ID)
	defer w.untrack(job.ID)

	receipt, sendErr := w.dispatch(jctx, job)
	if sendErr != nil {
		log.Warn("Notification failed", "type", job.Type, "error", sendErr)
		w.finish(dbc, log, job.ID, map[string]interface{}{
			"status":       types.JobStatusFailed,
			"error":        sendErr.Error(),
			"completed_at": time.Now().UTC(),
		})
	} else {
		result, _ := json.Marshal(sentResult{
			Status:    "sent",
			Recipient: job.Recipient,
			Type:      job.Type,
			Provider:  receipt.Provider,
			MessageID: receipt.MessageID,
		})
		log.Info("Notification sent", "type", job.Type, "provider", receipt.Provider)
		w.finish(dbc, log, job.ID, map[string]interface{}{
			"status":       types.JobStatusCompleted,
			"error":        "",
			"result":       datatypes.JSON(result),
			"completed_at": time.Now().UTC(),
		})
	}
	w.ack(jctx, log, d)
}

type sentResult struct {
	Status    string `json:"status"`
	Recipient string `json:"recipient"`
	Type      string `json:"type"`
	Provider  string `json:"provider,omitempty"`
	MessageID string `json:"messageId,omitempty"`
}

func (w *Worker) dispatch(ctx context.Context, job *types.NotificationJob) (receipt *runtime.Receipt, err error) {
	ch, ok := w.registry.Get(job.Type)
	if !ok {
		return nil, &unsupportedTypeError{Type: job.Type}
	}
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("Channel panic", "job_id", job.ID, "type", job.Type, "panic", r)
			receipt, err = nil, fmt.Errorf("panic in %s channel", job.Type)
		}
	}()
	sctx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
	defer cancel()
	receipt, err = ch.Send(sctx, job.Recipient, job.Message)
	if err == nil && receipt == nil {
		receipt = &runtime.Receipt{}
	}
	return receipt, err
}

// finish persists the outcome even when shutdown has cancelled ctx.
func (w *Worker) finish(dbc dbctx.Context, log *logger.Logger, id uuid.UUID, updates map[string]interface{}) {
	if err := w.repo.UpdateFields(dbctx.Context{Ctx: context.WithoutCancel(dbc.Ctx)}, id, updates); err != nil {
		log.Error("Failed to persist job outcome", "error", err, "status", updates["status"])
	}
}

// redeliverLater puts back a delivery whose job another live worker is
// sending, so it is retried once that worker finishes or its lease expires.
func (w *Worker) redeliverLater(ctx context.Context, log *logger.Logger, d *queue.Delivery) {
	log.Info("Job held by another worker; redelivering later")
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.cfg.PollInterval):
	}
	if err := w.queue.Enqueue(context.WithoutCancel(ctx), d.Message); err != nil {
		log.Warn("Redelivery failed; leaving in flight", "error", err)
		return
	}
	w.ack(ctx, log, d)
}

func (w *Worker) ack(ctx context.Context, log *logger.Logger, d *queue.Delivery) {
	if err := w.queue.Ack(context.WithoutCancel(ctx), d); err != nil {
		log.Warn("Ack failed", "error", err)
	}
}

type unsupportedTypeError struct{ Type string }

func (e *unsupportedTypeError) Error() string {
	return "unsupported notification type: " + e.Type
}
