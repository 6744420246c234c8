package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	EmailExists(dbc dbctx.Context, email string) (bool, error)
	Count(dbc dbctx.Context) (int64, error)
	CountCreatedSince(dbc dbctx.Context, since time.Time) (int64, error)
	ListRecent(dbc dbctx.Context, limit int) ([]*types.User, error)
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(dbc dbctx.Context, users []*types.User) ([]*types.User, error) {
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.Conn(ur.db).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// GetByID returns gorm.ErrRecordNotFound when no user matches.
func (ur *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	var u types.User
	if err := dbc.Conn(ur.db).
		Preload("Vendor").
		Preload("Trainer").
		Where("id = ?", id).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	var u types.User
	if err := dbc.Conn(ur.db).
		Where("email = ?", email).
		First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (ur *userRepo) EmailExists(dbc dbctx.Context, email string) (bool, error) {
	var count int64
	if err := dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (ur *userRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	err := dbc.Conn(ur.db).Model(&types.User{}).Count(&count).Error
	return count, err
}

func (ur *userRepo) CountCreatedSince(dbc dbctx.Context, since time.Time) (int64, error) {
	var count int64
	err := dbc.Conn(ur.db).
		Model(&types.User{}).
		Where("created_at >= ?", since.UTC()).
		Count(&count).Error
	return count, err
}

// ListRecent returns the newest users with their vendor and trainer profile.
func (ur *userRepo) ListRecent(dbc dbctx.Context, limit int) ([]*types.User, error) {
	var out []*types.User
	if limit <= 0 {
		return out, nil
	}
	if err := dbc.Conn(ur.db).
		Preload("Vendor").
		Preload("Trainer").
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
