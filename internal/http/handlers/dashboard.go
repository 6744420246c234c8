package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/trainermatch-backend/internal/http/response"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type DashboardHandler struct {
	log       *logger.Logger
	dashboard services.DashboardService
}

func NewDashboardHandler(log *logger.Logger, dashboard services.DashboardService) *DashboardHandler {
	return &DashboardHandler{log: log.With("handler", "DashboardHandler"), dashboard: dashboard}
}

// GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(c *gin.Context) {
	stats, err := h.dashboard.GetStats(requestDBC(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, stats)
}

// GET /api/dashboard/analytics
func (h *DashboardHandler) GetAnalytics(c *gin.Context) {
	a, err := h.dashboard.GetAnalytics(requestDBC(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, a)
}

// GET /api/dashboard/admin-stats
func (h *DashboardHandler) GetAdminStats(c *gin.Context) {
	s, err := h.dashboard.GetAdminStats(requestDBC(c))
	if err != nil {
		response.RespondErr(c, h.log, err)
		return
	}
	response.RespondOK(c, s)
}
