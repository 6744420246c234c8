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

type CreateDocumentInput struct {
	Title         string     `json:"title"`
	Type          string     `json:"type"`
	FileURL       string     `json:"fileUrl"`
	CollegeID     *uuid.UUID `json:"collegeId"`
	RequirementID *uuid.UUID `json:"requirementId"`
}

type DocumentService interface {
	Create(dbc dbctx.Context, in CreateDocumentInput) (*types.Document, error)
	List(dbc dbctx.Context, f repos.DocumentListFilter) ([]*types.Document, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type documentService struct {
	db           *gorm.DB
	log          *logger.Logger
	documents    repos.DocumentRepo
	colleges     repos.CollegeRepo
	requirements repos.RequirementRepo
}

func NewDocumentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	documents repos.DocumentRepo,
	colleges repos.CollegeRepo,
	requirements repos.RequirementRepo,
) DocumentService {
	return &documentService{
		db:           db,
		log:          baseLog.With("service", "DocumentService"),
		documents:    documents,
		colleges:     colleges,
		requirements: requirements,
	}
}

func (s *documentService) Create(dbc dbctx.Context, in CreateDocumentInput) (*types.Document, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Type = strings.TrimSpace(in.Type)
	in.FileURL = strings.TrimSpace(in.FileURL)
	if in.Title == "" || in.Type == "" || in.FileURL == "" {
		return nil, apierr.BadRequest("invalid_document", "title, type and fileUrl are required")
	}

	if in.CollegeID != nil {
		if _, err := s.colleges.GetByID(dbc, *in.CollegeID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.BadRequest("college_not_found", "college %s does not exist", *in.CollegeID)
			}
			return nil, fmt.Errorf("load college: %w", err)
		}
	}
	if in.RequirementID != nil {
		if _, err := s.requirements.GetByID(dbc, *in.RequirementID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apierr.BadRequest("requirement_not_found", "requirement %s does not exist", *in.RequirementID)
			}
			return nil, fmt.Errorf("load requirement: %w", err)
		}
	}

	doc := &types.Document{
		Title:         in.Title,
		Type:          in.Type,
		FileURL:       in.FileURL,
		CollegeID:     in.CollegeID,
		RequirementID: in.RequirementID,
	}
	if rd := ctxutil.GetRequestData(dbc.Ctx); rd != nil && rd.UserID != uuid.Nil {
		uid := rd.UserID
		doc.UploadedByID = &uid
	}

	if _, err := s.documents.Create(dbc, []*types.Document{doc}); err != nil {
		s.log.Error("Failed to create document", "error", err, "title", doc.Title)
		return nil, fmt.Errorf("create document: %w", err)
	}
	return doc, nil
}

func (s *documentService) List(dbc dbctx.Context, f repos.DocumentListFilter) ([]*types.Document, error) {
	docs, err := s.documents.List(dbc, f)
	if err != nil {
		s.log.Error("Failed to list documents", "error", err)
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if err := s.documents.Delete(dbc, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("document_not_found", "document %s not found", id)
		}
		s.log.Error("Failed to delete document", "error", err, "document_id", id)
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}
