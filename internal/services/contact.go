package services

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type ContactInput struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type ContactService interface {
	Submit(dbc dbctx.Context, in ContactInput) (*types.Contact, error)
	List(dbc dbctx.Context, take int) ([]*types.Contact, error)
}

type contactService struct {
	log  *logger.Logger
	repo repos.ContactRepo
}

func NewContactService(baseLog *logger.Logger, repo repos.ContactRepo) ContactService {
	return &contactService{log: baseLog.With("service", "ContactService"), repo: repo}
}

func (s *contactService) Submit(dbc dbctx.Context, in ContactInput) (*types.Contact, error) {
	c := &types.Contact{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:   strings.TrimSpace(in.Phone),
		Message: strings.TrimSpace(in.Message),
	}
	if c.Name == "" {
		return nil, apierr.BadRequest("missing_name", "name is required")
	}
	if _, err := mail.ParseAddress(c.Email); err != nil {
		return nil, apierr.BadRequest("invalid_email", "invalid email address")
	}
	if _, err := s.repo.Create(dbc, c); err != nil {
		s.log.Error("Failed to store contact request", "error", err)
		return nil, fmt.Errorf("create contact: %w", err)
	}
	return c, nil
}

func (s *contactService) List(dbc dbctx.Context, take int) ([]*types.Contact, error) {
	return s.repo.List(dbc, ClampTake(take))
}
