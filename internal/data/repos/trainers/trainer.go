package trainers

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type ListFilter struct {
	Skill string
	Take  int
}

type TrainerRepo interface {
	Create(dbc dbctx.Context, trainers []*types.Trainer) ([]*types.Trainer, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Trainer, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.Trainer, error)
	List(dbc dbctx.Context, f ListFilter) ([]*types.Trainer, error)
	Count(dbc dbctx.Context) (int64, error)
}

type trainerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTrainerRepo(db *gorm.DB, baseLog *logger.Logger) TrainerRepo {
	return &trainerRepo{db: db, log: baseLog.With("repo", "TrainerRepo")}
}

func (r *trainerRepo) Create(dbc dbctx.Context, trainers []*types.Trainer) ([]*types.Trainer, error) {
	if len(trainers) == 0 {
		return []*types.Trainer{}, nil
	}
	if err := dbc.Conn(r.db).Create(&trainers).Error; err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *trainerRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Trainer, error) {
	var t types.Trainer
	if err := dbc.Conn(r.db).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *trainerRepo) GetByEmail(dbc dbctx.Context, email string) (*types.Trainer, error) {
	var t types.Trainer
	if err := dbc.Conn(r.db).Where("email = ?", email).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// List orders by rating. Skill matching is a case-insensitive exact match on
// one element of the JSON skills array, done on the serialized text so it
// works on both jsonb and sqlite JSON.
func (r *trainerRepo) List(dbc dbctx.Context, f ListFilter) ([]*types.Trainer, error) {
	q := dbc.Conn(r.db).Model(&types.Trainer{})
	if skill := strings.ToLower(strings.TrimSpace(f.Skill)); skill != "" {
		q = q.Where("LOWER(CAST(skills AS TEXT)) LIKE ?", `%"`+escapeLike(skill)+`"%`)
	}
	if f.Take > 0 {
		q = q.Limit(f.Take)
	}
	var out []*types.Trainer
	if err := q.Order("rating DESC").Order("name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *trainerRepo) Count(dbc dbctx.Context) (int64, error) {
	var count int64
	err := dbc.Conn(r.db).Model(&types.Trainer{}).Count(&count).Error
	return count, err
}

func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "", `"`, "").Replace(s)
}
