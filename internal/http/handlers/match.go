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

type MatchHandler struct {
	log     *logger.Logger
	matches services.MatchService
}

func NewMatchHandler(log *logger.Logger, matches services.MatchService) *MatchHandler {
	return &MatchHandler{log: log.With("handler", "MatchHandler"), matches: matches}
}

// GET /api/matches/:id
func (h *MatchHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	m, err := h.matches.Get(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"match": m})
}

// GET /api/matches/:id/proposals
func (h *MatchHandler) ListProposals(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	out, err := h.matches.ListProposals(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"proposals": out})
}

// PATCH /api/matches/:id/status
func (h *MatchHandler) UpdateStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, h.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	status := types.MatchStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	m, err := h.matches.UpdateStatus(requestDBC(c), id, status)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"match": m})
}
