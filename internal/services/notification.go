package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/jobs/queue"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type NotificationRequest struct {
	Type      string `json:"type"`
	Recipient string `json:"recipient"`
	Message   string `json:"message"`
}

type NotificationService interface {
	// Enqueue persists a queued job and publishes it. The type is not checked
	// here; the worker fails jobs whose type has no channel.
	Enqueue(dbc dbctx.Context, req NotificationRequest) (*types.NotificationJob, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.NotificationJob, error)
}

type notificationService struct {
	db    *gorm.DB
	log   *logger.Logger
	repo  repos.NotificationJobRepo
	queue queue.Queue
}

func NewNotificationService(db *gorm.DB, baseLog *logger.Logger, repo repos.NotificationJobRepo, q queue.Queue) NotificationService {
	return &notificationService{
		db:    db,
		log:   baseLog.With("service", "NotificationService"),
		repo:  repo,
		queue: q,
	}
}

func (s *notificationService) Enqueue(dbc dbctx.Context, req NotificationRequest) (*types.NotificationJob, error) {
	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	req.Recipient = strings.TrimSpace(req.Recipient)
	req.Message = strings.TrimSpace(req.Message)
	if req.Type == "" {
		return nil, apierr.BadRequest("missing_type", "type is required")
	}
	if req.Recipient == "" {
		return nil, apierr.BadRequest("missing_recipient", "recipient is required")
	}
	if req.Message == "" {
		return nil, apierr.BadRequest("missing_message", "message is required")
	}
	if s.queue == nil {
		return nil, fmt.Errorf("notification queue not configured")
	}

	job, err := s.repo.Create(dbc, &types.NotificationJob{
		Type:      req.Type,
		Recipient: req.Recipient,
		Message:   req.Message,
		Status:    types.JobStatusQueued,
	})
	if err != nil {
		s.log.Error("Failed to persist notification job", "error", err, "type", req.Type)
		return nil, fmt.Errorf("create notification job: %w", err)
	}

	msg := queue.Message{
		JobID:     job.ID,
		Type:      job.Type,
		Recipient: job.Recipient,
		Message:   job.Message,
	}
	if td := ctxutil.GetTraceData(dbc.Ctx); td != nil {
		msg.TraceID = td.TraceID
		msg.RequestID = td.RequestID
	}
	if err := s.queue.Enqueue(ctxutil.Default(dbc.Ctx), msg); err != nil {
		s.log.Error("Failed to publish notification job", "error", err, "job_id", job.ID)
		_ = s.repo.UpdateFields(dbc, job.ID, map[string]interface{}{
			"status": types.JobStatusFailed,
			"error":  "enqueue: " + err.Error(),
		})
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	s.log.Info("Notification queued", "job_id", job.ID, "type", job.Type, "recipient", job.Recipient)
	return job, nil
}

func (s *notificationService) Get(dbc dbctx.Context, id uuid.UUID) (*types.NotificationJob, error) {
	job, err := s.repo.GetByID(dbc, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("notification_not_found", "notification job %s not found", id)
		}
		return nil, err
	}
	return job, nil
}
