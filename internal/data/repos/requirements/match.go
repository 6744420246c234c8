package requirements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type MatchRepo interface {
	Create(dbc dbctx.Context, matches []*types.Match) ([]*types.Match, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Match, error)
	ListByRequirement(dbc dbctx.Context, requirementID uuid.UUID) ([]*types.Match, error)
	ListCreatedSince(dbc dbctx.Context, since time.Time) ([]*types.Match, error)
	CountByStatus(dbc dbctx.Context, status types.MatchStatus) (int64, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.MatchStatus) (*types.Match, types.MatchStatus, error)
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	return &matchRepo{db: db, log: baseLog.With("repo", "MatchRepo")}
}

func (r *matchRepo) Create(dbc dbctx.Context, matches []*types.Match) ([]*types.Match, error) {
	if len(matches) == 0 {
		return []*types.Match{}, nil
	}
	if err := dbc.Conn(r.db).Create(&matches).Error; err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *matchRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Match, error) {
	var m types.Match
	if err := dbc.Conn(r.db).
		Preload("Trainer").
		Preload("Requirement").
		Where("id = ?", id).
		First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *matchRepo) ListByRequirement(dbc dbctx.Context, requirementID uuid.UUID) ([]*types.Match, error) {
	var out []*types.Match
	if err := dbc.Conn(r.db).
		Preload("Trainer").
		Where("requirement_id = ?", requirementID).
		Order("score DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListCreatedSince loads matches in the window with their trainer, which the
// leaderboard needs for display names.
func (r *matchRepo) ListCreatedSince(dbc dbctx.Context, since time.Time) ([]*types.Match, error) {
	var out []*types.Match
	if err := dbc.Conn(r.db).
		Preload("Trainer").
		Where("created_at >= ?", since.UTC()).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *matchRepo) CountByStatus(dbc dbctx.Context, status types.MatchStatus) (int64, error) {
	var count int64
	err := dbc.Conn(r.db).
		Model(&types.Match{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// UpdateStatus sets the status under a row lock and returns the updated match
// together with the status it had before.
func (r *matchRepo) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.MatchStatus) (*types.Match, types.MatchStatus, error) {
	var (
		updated  *types.Match
		previous types.MatchStatus
	)
	err := dbc.Conn(r.db).Transaction(func(txx *gorm.DB) error {
		var m types.Match
		if err := txx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&m).Error; err != nil {
			return err
		}
		previous = m.Status
		if err := txx.Model(&types.Match{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":     status,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return err
		}
		if err := txx.Preload("Trainer").Preload("Requirement").Where("id = ?", id).First(&m).Error; err != nil {
			return err
		}
		updated = &m
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, previous, nil
}
