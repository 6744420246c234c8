package requirements

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type ListFilter struct {
	VendorID *uuid.UUID
	Status   types.RequirementStatus
	Take     int
}

type RequirementRepo interface {
	Create(dbc dbctx.Context, reqs []*types.Requirement) ([]*types.Requirement, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Requirement, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.Requirement, error)
	ListCreatedSince(dbc dbctx.Context, since time.Time) ([]*types.Requirement, error)
	CountActive(dbc dbctx.Context) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type requirementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequirementRepo(db *gorm.DB, baseLog *logger.Logger) RequirementRepo {
	return &requirementRepo{db: db, log: baseLog.With("repo", "RequirementRepo")}
}

func (r *requirementRepo) Create(dbc dbctx.Context, reqs []*types.Requirement) ([]*types.Requirement, error) {
	if len(reqs) == 0 {
		return []*types.Requirement{}, nil
	}
	if err := dbc.Conn(r.db).Create(&reqs).Error; err != nil {
		return nil, err
	}
	return reqs, nil
}

func (r *requirementRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Requirement, error) {
	var req types.Requirement
	if err := dbc.Conn(r.db).Preload("Vendor").Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *requirementRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.Requirement, error) {
	q := dbc.Conn(r.db).Model(&types.Requirement{})
	if f.VendorID != nil {
		q = q.Where("vendor_id = ?", *f.VendorID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Take > 0 {
		q = q.Limit(f.Take)
	}
	var out []*types.Requirement
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *requirementRepo) ListCreatedSince(dbc dbctx.Context, since time.Time) ([]*types.Requirement, error) {
	var out []*types.Requirement
	if err := dbc.Conn(r.db).
		Where("created_at >= ?", since.UTC()).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// CountActive counts every requirement that has left the draft state.
func (r *requirementRepo) CountActive(dbc dbctx.Context) (int64, error) {
	var count int64
	err := dbc.Conn(r.db).
		Model(&types.Requirement{}).
		Where("status <> ?", types.RequirementDraft).
		Count(&count).Error
	return count, err
}

func (r *requirementRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Conn(r.db).Where("id = ?", id).Delete(&types.Requirement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
