package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type DocumentHandler struct {
	log       *logger.Logger
	documents services.DocumentService
}

func NewDocumentHandler(log *logger.Logger, documents services.DocumentService) *DocumentHandler {
	return &DocumentHandler{log: log.With("handler", "DocumentHandler"), documents: documents}
}

// POST /api/documents
func (h *DocumentHandler) Create(c *gin.Context) {
	var req services.CreateDocumentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, h.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	doc, err := h.documents.Create(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"document": doc})
}

// GET /api/documents?collegeId&type&searchTerm
func (h *DocumentHandler) List(c *gin.Context) {
	collegeID, err := optionalUUIDQuery(c, "collegeId")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	docs, err := h.documents.List(requestDBC(c), repos.DocumentListFilter{
		CollegeID:  collegeID,
		Type:       strings.TrimSpace(c.Query("type")),
		SearchTerm: c.Query("searchTerm"),
	})
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"documents": docs})
}

// DELETE /api/documents/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if err := h.documents.Delete(requestDBC(c), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
