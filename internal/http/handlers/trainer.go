package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type TrainerHandler struct {
	log      *logger.Logger
	trainers services.TrainerService
}

func NewTrainerHandler(log *logger.Logger, trainers services.TrainerService) *TrainerHandler {
	return &TrainerHandler{log: log.With("handler", "TrainerHandler"), trainers: trainers}
}

// GET /api/trainers?skill&take
func (h *TrainerHandler) List(c *gin.Context) {
	out, err := h.trainers.List(requestDBC(c), c.Query("skill"), intQuery(c, "take"))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"trainers": out})
}

// GET /api/trainers/:id
func (h *TrainerHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	t, err := h.trainers.Get(requestDBC(c), id)
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, gin.H{"trainer": t})
}
