package documents

import (
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type ContactRepo interface {
	Create(dbc dbctx.Context, c *types.Contact) (*types.Contact, error)
	List(dbc dbctx.Context, take int) ([]*types.Contact, error)
}

type contactRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewContactRepo(db *gorm.DB, baseLog *logger.Logger) ContactRepo {
	return &contactRepo{db: db, log: baseLog.With("repo", "ContactRepo")}
}

func (r *contactRepo) Create(dbc dbctx.Context, c *types.Contact) (*types.Contact, error) {
	if err := dbc.Conn(r.db).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (r *contactRepo) List(dbc dbctx.Context, take int) ([]*types.Contact, error) {
	q := dbc.Conn(r.db).Order("created_at DESC")
	if take > 0 {
		q = q.Limit(take)
	}
	var out []*types.Contact
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
