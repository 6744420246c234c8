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
	"github.com/yungbote/trainermatch-backend/internal/platform/ctxutil"
	"github.com/yungbote/trainermatch-backend/internal/platform/dbctx"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

const (
	DefaultTake = 50
	MaxTake     = 200
)

// ClampTake applies the listing default and ceiling.
func ClampTake(take int) int {
	if take <= 0 {
		return DefaultTake
	}
	if take > MaxTake {
		return MaxTake
	}
	return take
}

type CreateRequirementInput struct {
	Title       string                  `json:"title"`
	Description string                  `json:"description"`
	Tags        []string                `json:"tags"`
	Status      types.RequirementStatus `json:"status"`
}

type RequirementService interface {
	Create(dbc dbctx.Context, in CreateRequirementInput) (*types.Requirement, error)
	List(dbc dbctx.Context, status types.RequirementStatus, take int) ([]*types.Requirement, error)
	Get(dbc dbctx.Context, id uuid.UUID) (*types.Requirement, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type requirementService struct {
	db   *gorm.DB
	log  *logger.Logger
	repo repos.RequirementRepo
}

func NewRequirementService(db *gorm.DB, baseLog *logger.Logger, repo repos.RequirementRepo) RequirementService {
	return &requirementService{
		db:   db,
		log:  baseLog.With("service", "RequirementService"),
		repo: repo,
	}
}

func (s *requirementService) Create(dbc dbctx.Context, in CreateRequirementInput) (*types.Requirement, error) {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || rd.VendorID == nil {
		return nil, apierr.Forbidden("vendor_required", "caller is not attached to a vendor")
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, apierr.BadRequest("missing_title", "title is required")
	}
	status := in.Status
	if status == "" {
		status = types.RequirementDraft
	}
	if !status.Valid() {
		return nil, apierr.BadRequest("invalid_status", "unknown status %q", status)
	}
	tags := make([]string, 0, len(in.Tags))
	for _, t := range in.Tags {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	req := &types.Requirement{
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Tags:        tags,
		Status:      status,
		VendorID:    *rd.VendorID,
	}
	if _, err := s.repo.Create(dbc, []*types.Requirement{req}); err != nil {
		s.log.Error("Failed to create requirement", "error", err, "vendor_id", rd.VendorID)
		return nil, fmt.Errorf("create requirement: %w", err)
	}
	return req, nil
}

// List scopes vendor callers to their own vendor. Trainers and super admins
// see every requirement.
func (s *requirementService) List(dbc dbctx.Context, status types.RequirementStatus, take int) ([]*types.Requirement, error) {
	if status != "" && !status.Valid() {
		return nil, apierr.BadRequest("invalid_status", "unknown status %q", status)
	}
	f := repos.RequirementListFilter{Status: status, Take: ClampTake(take)}
	if rd := ctxutil.GetRequestData(dbc.Ctx); rd != nil && isVendorRole(rd.Role) {
		if rd.VendorID == nil {
			return []*types.Requirement{}, nil
		}
		f.VendorID = rd.VendorID
	}
	out, err := s.repo.List(dbc, f)
	if err != nil {
		s.log.Error("Failed to list requirements", "error", err)
		return nil, fmt.Errorf("list requirements: %w", err)
	}
	return out, nil
}

func (s *requirementService) Get(dbc dbctx.Context, id uuid.UUID) (*types.Requirement, error) {
	req, err := s.repo.GetByID(dbc, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("requirement_not_found", "requirement %s not found", id)
		}
		return nil, err
	}
	if err := checkVendorScope(dbc, req.VendorID); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *requirementService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if _, err := s.Get(dbc, id); err != nil {
		return err
	}
	if err := s.repo.Delete(dbc, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("requirement_not_found", "requirement %s not found", id)
		}
		s.log.Error("Failed to delete requirement", "error", err, "requirement_id", id)
		return fmt.Errorf("delete requirement: %w", err)
	}
	return nil
}

func isVendorRole(role string) bool {
	return role == string(types.RoleVendorAdmin) || role == string(types.RoleVendorUser)
}

// checkVendorScope hides other vendors' records from vendor callers.
func checkVendorScope(dbc dbctx.Context, vendorID uuid.UUID) error {
	rd := ctxutil.GetRequestData(dbc.Ctx)
	if rd == nil || !isVendorRole(rd.Role) {
		return nil
	}
	if rd.VendorID == nil || *rd.VendorID != vendorID {
		return apierr.NotFound("not_found", "resource not found")
	}
	return nil
}
