package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/apierr"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type NotificationHandler struct {
	log           *logger.Logger
	notifications services.NotificationService
}

func NewNotificationHandler(log *logger.Logger, notifications services.NotificationService) *NotificationHandler {
	return &NotificationHandler{log: log.With("handler", "NotificationHandler"), notifications: notifications}
}

// POST /api/notifications
func (h *NotificationHandler) Enqueue(c *gin.Context) {
	var req services.NotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondErr(c, h.log, apierr.BadRequest("invalid_request", "%s", err.Error()))
		return
	}
	job, err := h.notifications.Enqueue(requestDBC(c), req)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondAccepted(c, gin.H{"job": job})
}

// GET /api/notifications/:id
func (h *NotificationHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	job, err := h.notifications.Get(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"job": job})
}
