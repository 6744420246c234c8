package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type MatchService interface {
	ListForRequirement(dbc dbctx.Context, requirementID uuid.UUID) ([]*types.Match, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Match, error)
	ListProposals(dbc dbctx.Context, matchID uuid.UUID) ([]*types.Proposal, error)
	UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.MatchStatus) (*types.Match, error)
}

type matchService struct {
	db            *gorm.DB
	log           *logger.Logger
	matches       repos.MatchRepo
	proposals     repos.ProposalRepo
	requirements  repos.RequirementRepo
	notifications NotificationService
}

func NewMatchService(
	db *gorm.DB,
	baseLog *logger.Logger,
	matches repos.MatchRepo,
	proposals repos.ProposalRepo,
	requirements repos.RequirementRepo,
	notifications NotificationService,
) MatchService {
	return &matchService{
		db:            db,
		log:           baseLog.With("service", "MatchService"),
		matches:       matches,
		proposals:     proposals,
		requirements:  requirements,
		notifications: notifications,
	}
}

func (s *matchService) ListForRequirement(dbc dbctx.Context, requirementID uuid.UUID) ([]*types.Match, error) {
	req, err := s.requirements.GetByID(dbc, requirementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("requirement_not_found", "requirement %s not found", requirementID)
		}
		return nil, err
	}
	if err := checkVendorScope(dbc, req.VendorID); err != nil {
		return nil, err
	}
	out, err := s.matches.ListByRequirement(dbc, requirementID)
	if err != nil {
		s.log.Error("Failed to list matches", "error", err, "requirement_id", requirementID)
		return nil, fmt.Errorf("list matches: %w", err)
	}
	return out, nil
}

func (s *matchService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Match, error) {
	m, err := s.matches.GetByID(dbc, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("match_not_found", "match %s not found", id)
		}
		return nil, err
	}
	if m.Requirement != nil {
		if err := checkVendorScope(dbc, m.Requirement.VendorID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (s *matchService) ListProposals(dbc dbctx.Context, matchID uuid.UUID) ([]*types.Proposal, error) {
	if _, err := s.Get(dbc, matchID); err != nil {
		return nil, err
	}
	return s.proposals.ListByMatch(dbc, matchID)
}

// UpdateStatus notifies the trainer by email when a match becomes accepted.
// A failed notification is logged and does not undo the status change.
func (s *matchService) UpdateStatus(dbc dbctx.Context, id uuid.UUID, status types.MatchStatus) (*types.Match, error) {
	if !status.Valid() {
		return nil, apierr.BadRequest("invalid_status", "status must be one of PENDING, ACCEPTED, REJECTED")
	}
	if _, err := s.Get(dbc, id); err != nil {
		return nil, err
	}
	m, previous, err := s.matches.UpdateStatus(dbc, id, status)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("match_not_found", "match %s not found", id)
		}
		s.log.Error("Failed to update match status", "error", err, "match_id", id)
		return nil, fmt.Errorf("update match status: %w", err)
	}

	if status == types.MatchAccepted && previous != types.MatchAccepted && m.Trainer != nil && m.Trainer.Email != "" && s.notifications != nil {
		title := "a training requirement"
		if m.Requirement != nil && m.Requirement.Title != "" {
			title = fmt.Sprintf("%q", m.Requirement.Title)
		}
		_, nerr := s.notifications.Enqueue(dbc, NotificationRequest{
			Type:      types.NotificationEmail,
			Recipient: m.Trainer.Email,
			Message:   fmt.Sprintf("Hi %s, you have been matched to %s.", m.Trainer.DisplayName(), title),
		})
		if nerr != nil {
			s.log.Warn("Match accepted but notification failed", "error", nerr, "match_id", id)
		}
	}
	return m, nil
}
