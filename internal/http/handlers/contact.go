package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type ContactHandler struct {
	log      *logger.Logger
	contacts services.ContactService
}

func NewContactHandler(log *logger.Logger, contacts services.ContactService) *ContactHandler {
	return &ContactHandler{log: log.With("handler", "ContactHandler"), contacts: contacts}
}

// POST /api/contact
func (h *ContactHandler) Submit(c *gin.Context) {
	var req services.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, h.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	out, err := h.contacts.Submit(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondCreated(c, gin.H{"contact": out})
}

// GET /api/contact
func (h *ContactHandler) List(c *gin.Context) {
	out, err := h.contacts.List(requestDBC(c), intQuery(c, "take"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"contacts": out})
}
