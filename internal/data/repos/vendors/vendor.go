package vendors

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type VendorRepo interface {
	Create(dbc dbctx.Context, vendors []*types.Vendor) ([]*types.Vendor, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Vendor, error)
	List(dbc dbctx.Context) ([]*types.Vendor, error)
	Count(dbc dbctx.Context) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type vendorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVendorRepo(db *gorm.DB, baseLog *logger.Logger) VendorRepo {
	return &vendorRepo{db: db, log: baseLog.With("repo", "VendorRepo")}
}

func (r *vendorRepo) Create(dbc dbctx.Context, vendors []*types.Vendor) ([]*types.Vendor, error) {
	if len(vendors) == 0 {
		return []*types.Vendor{}, nil
	}
	if err := dbc.Conn(r.db).Create(&vendors).Error; err != nil {
		return nil, err
	}
	return vendors, nil
}

func (r *vendorRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Vendor, error) {
	var v types.Vendor
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *vendorRepo) List(dbc dbctx.Context) ([]*types.Vendor, error) {
	var out []*types.Vendor
	if err := dbc.Conn(r.db).Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *vendorRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	err := dbc.Conn(r.db).Model(&types.Vendor{}).Count(&count).Error
	return count, err
}

// Delete relies on foreign keys: colleges and requirements go with the
// vendor, users are detached.
func (r *vendorRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Conn(r.db).Where("id = ?", id).Delete(&types.Vendor{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
