package requirements

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type ProposalRepo interface {
	Create(dbc dbctx.Context, proposals []*types.Proposal) ([]*types.Proposal, error)
	ListByMatch(dbc dbctx.Context, matchID uuid.UUID) ([]*types.Proposal, error)
}

type proposalRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProposalRepo(db *gorm.DB, baseLog *logger.Logger) ProposalRepo {
	return &proposalRepo{db: db, log: baseLog.With("repo", "ProposalRepo")}
}

func (r *proposalRepo) Create(dbc dbctx.Context, proposals []*types.Proposal) ([]*types.Proposal, error) {
	if len(proposals) == 0 {
		return []*types.Proposal{}, nil
	}
	if err := dbc.Conn(r.db).Create(&proposals).Error; err != nil {
		return nil, err
	}
	return proposals, nil
}

func (r *proposalRepo) ListByMatch(dbc dbctx.Context, matchID uuid.UUID) ([]*types.Proposal, error) {
	var out []*types.Proposal
	if err := dbc.Conn(r.db).
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
