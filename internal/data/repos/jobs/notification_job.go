package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

// ClaimOutcome says what a delivery should do after Claim.
type ClaimOutcome int

const (
	// ClaimAcquired: the caller owns the job and must send it.
	ClaimAcquired ClaimOutcome = iota
	// ClaimBusy: another consumer holds a live lease; redeliver later.
	ClaimBusy
	// ClaimSkipped: the job is missing or finished; drop the delivery.
	ClaimSkipped
)

type NotificationJobRepo interface {
	Create(dbc dbctx.Context, job *types.NotificationJob) (*types.NotificationJob, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NotificationJob, error)
	// Claim moves a queued job, or a processing job whose heartbeat is older
	// than staleBefore, to processing and bumps attempts.
	Claim(dbc dbctx.Context, id uuid.UUID, staleBefore time.Time) (*types.NotificationJob, ClaimOutcome, error)
	// Heartbeat refreshes heartbeat_at on processing jobs.
	Heartbeat(dbc dbctx.Context, ids []uuid.UUID) error
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListByStatus(dbc dbctx.Context, status string, take int) ([]*types.NotificationJob, error)
	ResetStale(dbc dbctx.Context, staleBefore time.Time) (int64, error)
}

type notificationJobRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationJobRepo(db *gorm.DB, baseLog *logger.Logger) NotificationJobRepo {
	return &notificationJobRepo{
		db:  db,
		log: baseLog.With("repo", "NotificationJobRepo"),
	}
}

func (r *notificationJobRepo) Create(dbc dbctx.Context, job *types.NotificationJob) (*types.NotificationJob, error) {
	if job.Status == "" {
		job.Status = types.JobStatusQueued
	}
	if err := dbc.Conn(r.db).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *notificationJobRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.NotificationJob, error) {
	var job types.NotificationJob
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *notificationJobRepo) Claim(dbc dbctx.Context, id uuid.UUID, staleBefore time.Time) (*types.NotificationJob, ClaimOutcome, error) {
	var (
		claimed *types.NotificationJob
		outcome = ClaimSkipped
	)
	err := dbc.Conn(r.db).Transaction(func(txx *gorm.DB) error {
		var job types.NotificationJob
		res := txx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Limit(1).
			Find(&job)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		switch job.Status {
		case types.JobStatusQueued:
		case types.JobStatusProcessing:
			if job.HeartbeatAt != nil && !job.HeartbeatAt.Before(staleBefore) {
				outcome = ClaimBusy
				return nil
			}
		default:
			return nil
		}
		now := time.Now().UTC()
		if err := txx.Model(&types.NotificationJob{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       types.JobStatusProcessing,
				"attempts":     gorm.Expr("attempts + 1"),
				"heartbeat_at": now,
				"updated_at":   now,
			}).Error; err != nil {
			return err
		}
		job.Status = types.JobStatusProcessing
		job.Attempts++
		job.HeartbeatAt = &now
		job.UpdatedAt = now
		claimed = &job
		outcome = ClaimAcquired
		return nil
	})
	if err != nil {
		return nil, ClaimSkipped, err
	}
	return claimed, outcome, nil
}

func (r *notificationJobRepo) Heartbeat(dbc dbctx.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return dbc.Conn(r.db).
		Model(&types.NotificationJob{}).
		Where("id IN ? AND status = ?", ids, types.JobStatusProcessing).
		Updates(map[string]interface{}{
			"heartbeat_at": now,
			"updated_at":   now,
		}).Error
}

func (r *notificationJobRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return dbc.Conn(r.db).
		Model(&types.NotificationJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *notificationJobRepo) ListByStatus(dbc dbctx.Context, status string, take int) ([]*types.NotificationJob, error) {
	q := dbc.Conn(r.db).Where("status = ?", status).Order("created_at ASC")
	if take > 0 {
		q = q.Limit(take)
	}
	var out []*types.NotificationJob
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ResetStale returns processing jobs whose heartbeat stopped before
// staleBefore to queued. Jobs still heartbeated by a live worker are untouched.
func (r *notificationJobRepo) ResetStale(dbc dbctx.Context, staleBefore time.Time) (int64, error) {
	res := dbc.Conn(r.db).
		Model(&types.NotificationJob{}).
		Where("status = ? AND (heartbeat_at IS NULL OR heartbeat_at < ?)", types.JobStatusProcessing, staleBefore).
		Updates(map[string]interface{}{
			"status":     types.JobStatusQueued,
			"updated_at": time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}
