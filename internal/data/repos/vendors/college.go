package vendors

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type CollegeRepo interface {
	Create(dbc dbctx.Context, colleges []*types.College) ([]*types.College, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.College, error)
	ListByVendor(dbc dbctx.Context, vendorID uuid.UUID) ([]*types.College, error)
	Count(dbc dbctx.Context) (int64, error)
}

type collegeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCollegeRepo(db *gorm.DB, baseLog *logger.Logger) CollegeRepo {
	return &collegeRepo{db: db, log: baseLog.With("repo", "CollegeRepo")}
}

func (r *collegeRepo) Create(dbc dbctx.Context, colleges []*types.College) ([]*types.College, error) {
	if len(colleges) == 0 {
		return []*types.College{}, nil
	}
	if err := dbc.Conn(r.db).Create(&colleges).Error; err != nil {
		return nil, err
	}
	return colleges, nil
}

func (r *collegeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.College, error) {
	var c types.College
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *collegeRepo) ListByVendor(dbc dbctx.Context, vendorID uuid.UUID) ([]*types.College, error) {
	var out []*types.College
	if err := dbc.Conn(r.db).
		Where("vendor_id = ?", vendorID).
		Order("name ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *collegeRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	err := dbc.Conn(r.db).Model(&types.College{}).Count(&count).Error
	return count, err
}
