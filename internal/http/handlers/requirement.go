package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type RequirementHandler struct {
	log          *logger.Logger
	requirements services.RequirementService
	matches      services.MatchService
}

func NewRequirementHandler(log *logger.Logger, requirements services.RequirementService, matches services.MatchService) *RequirementHandler {
	return &RequirementHandler{
		log:          log.With("handler", "RequirementHandler"),
		requirements: requirements,
		matches:      matches,
	}
}

// POST /api/requirements
func (h *RequirementHandler) Create(c *gin.Context) {
	var req services.CreateRequirementInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, h.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	created, err := h.requirements.Create(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"requirement": created})
}

// GET /api/requirements?status&take
func (h *RequirementHandler) List(c *gin.Context) {
	status := types.RequirementStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	out, err := h.requirements.List(requestDBC(c), status, intQuery(c, "take"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"requirements": out})
}

// GET /api/requirements/:id
func (h *RequirementHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	req, err := h.requirements.Get(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"requirement": req})
}

// DELETE /api/requirements/:id
func (h *RequirementHandler) Delete(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	if err := h.requirements.Delete(requestDBC(c), id); err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/requirements/:id/matches
func (h *RequirementHandler) ListMatches(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.matches.ListForRequirement(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"matches": out})
}
