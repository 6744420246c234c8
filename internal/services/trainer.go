package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type TrainerService interface {
	List(dbc dbctx.Context, skill string, take int) ([]*types.Trainer, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Trainer, error)
}

type trainerService struct {
	log  *logger.Logger
	repo repos.TrainerRepo
}

func NewTrainerService(baseLog *logger.Logger, repo repos.TrainerRepo) TrainerService {
	return &trainerService{log: baseLog.With("service", "TrainerService"), repo: repo}
}

func (s *trainerService) List(dbc dbctx.Context, skill string, take int) ([]*types.Trainer, error) {
	out, err := s.repo.List(dbc, repos.TrainerListFilter{Skill: strings.TrimSpace(skill), Take: ClampTake(take)})
	if err != nil {
		s.log.Error("Failed to list trainers", "error", err)
		return nil, fmt.Errorf("list trainers: %w", err)
	}
	return out, nil
}

func (s *trainerService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Trainer, error) {
	t, err := s.repo.GetByID(dbc, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("trainer_not_found", "trainer %s not found", id)
		}
		return nil, err
	}
	return t, nil
}
