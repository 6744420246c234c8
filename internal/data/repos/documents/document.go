package documents

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

// ListFilter fields combine with AND; zero values are ignored.
type ListFilter struct {
	CollegeID  *uuid.UUID
	Type       string
	SearchTerm string
}

type DocumentRepo interface {
	Create(dbc dbctx.Context, docs []*types.Document) ([]*types.Document, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.Document, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type documentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDocumentRepo(db *gorm.DB, baseLog *logger.Logger) DocumentRepo {
	return &documentRepo{db: db, log: baseLog.With("repo", "DocumentRepo")}
}

func (r *documentRepo) Create(dbc dbctx.Context, docs []*types.Document) ([]*types.Document, error) {
	if len(docs) == 0 {
		return []*types.Document{}, nil
	}
	if err := dbc.Conn(r.db).Create(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

func (r *documentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Document, error) {
	var d types.Document
	if err := dbc.Conn(r.db).Preload("College").Where("id = ?", id).First(&d).Error; err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *documentRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.Document, error) {
	q := dbc.Conn(r.db).Model(&types.Document{}).Preload("College")
	if f.CollegeID != nil {
		q = q.Where("college_id = ?", *f.CollegeID)
	}
	if t := strings.TrimSpace(f.Type); t != "" {
		q = q.Where("type = ?", t)
	}
	if s := strings.ToLower(strings.TrimSpace(f.SearchTerm)); s != "" {
		q = q.Where(`LOWER(title) LIKE ? ESCAPE '\'`, "%"+escapeLike(s)+"%")
	}
	var out []*types.Document
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// escapeLike makes % and _ match literally under ESCAPE '\'.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(s)
}

func (r *documentRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.Conn(r.db).Where("id = ?", id).Delete(&types.Document{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
