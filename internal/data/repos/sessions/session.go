package sessions

import (
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type SessionRepo interface {
	Create(dbc dbctx.Context, sessions []*types.Session) ([]*types.Session, error)
	CountByStatus(dbc dbctx.Context, status types.SessionStatus) (int64, error)
	ListUpcoming(dbc dbctx.Context, take int) ([]*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, sessions []*types.Session) ([]*types.Session, error) {
	if len(sessions) == 0 {
		return []*types.Session{}, nil
	}
	if err := dbc.Conn(r.db).Create(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepo) CountByStatus(dbc dbctx.Context, status types.SessionStatus) (int64, error) {
	var count int64
	err := dbc.Conn(r.db).
		Model(&types.Session{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *sessionRepo) ListUpcoming(dbc dbctx.Context, take int) ([]*types.Session, error) {
	q := dbc.Conn(r.db).
		Where("status IN ?", []types.SessionStatus{types.SessionScheduled, types.SessionConfirmed}).
		Order("start_time ASC")
	if take > 0 {
		q = q.Limit(take)
	}
	var out []*types.Session
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
