package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	types "github.com/yungbote/trainermatch-backend/internal/domain"
	httpH "github.com/yungbote/trainermatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/trainermatch-backend/internal/http/middleware"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	CORSOrigins    []string
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler       *httpH.HealthHandler
	AuthHandler         *httpH.AuthHandler
	DashboardHandler    *httpH.DashboardHandler
	DocumentHandler     *httpH.DocumentHandler
	UploadHandler       *httpH.UploadHandler
	RequirementHandler  *httpH.RequirementHandler
	MatchHandler        *httpH.MatchHandler
	TrainerHandler      *httpH.TrainerHandler
	NotificationHandler *httpH.NotificationHandler
	ContactHandler      *httpH.ContactHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	// Public
	if cfg.AuthHandler != nil {
		api.POST("/auth/register", cfg.AuthHandler.Register)
		api.POST("/auth/login", cfg.AuthHandler.Login)
	}
	if cfg.ContactHandler != nil {
		api.POST("/contact", cfg.ContactHandler.Submit)
	}

	protected := api.Group("/")
	if cfg.AuthMiddleware != nil {
		protected.Use(cfg.AuthMiddleware.RequireAuth())
	}

	vendors := httpMW.RequireRoles(types.RoleVendorAdmin, types.RoleVendorUser)
	vendorAdmin := httpMW.RequireRoles(types.RoleVendorAdmin)
	superAdmin := httpMW.RequireRoles(types.RoleSuperAdmin)

	if cfg.AuthHandler != nil {
		protected.GET("/auth/me", cfg.AuthHandler.Me)
		protected.POST("/users", vendorAdmin, cfg.AuthHandler.CreateUser)
	}

	if cfg.DashboardHandler != nil {
		protected.GET("/dashboard/stats", cfg.DashboardHandler.GetStats)
		protected.GET("/dashboard/analytics", cfg.DashboardHandler.GetAnalytics)
		protected.GET("/dashboard/admin-stats", superAdmin, cfg.DashboardHandler.GetAdminStats)
	}

	if cfg.DocumentHandler != nil {
		protected.POST("/documents", vendors, cfg.DocumentHandler.Create)
		protected.GET("/documents", httpMW.RequireRoles(types.RoleVendorAdmin, types.RoleVendorUser, types.RoleTrainer), cfg.DocumentHandler.List)
		protected.DELETE("/documents/:id", vendorAdmin, cfg.DocumentHandler.Delete)
	}

	if cfg.UploadHandler != nil {
		protected.POST("/uploads/image", cfg.UploadHandler.UploadImage)
	}

	if cfg.RequirementHandler != nil {
		protected.POST("/requirements", vendors, cfg.RequirementHandler.Create)
		protected.GET("/requirements", cfg.RequirementHandler.List)
		protected.GET("/requirements/:id", cfg.RequirementHandler.Get)
		protected.DELETE("/requirements/:id", vendorAdmin, cfg.RequirementHandler.Delete)
		protected.GET("/requirements/:id/matches", cfg.RequirementHandler.ListMatches)
	}

	if cfg.MatchHandler != nil {
		protected.GET("/matches/:id", cfg.MatchHandler.Get)
		protected.GET("/matches/:id/proposals", cfg.MatchHandler.ListProposals)
		protected.PATCH("/matches/:id/status", vendors, cfg.MatchHandler.UpdateStatus)
	}

	if cfg.TrainerHandler != nil {
		protected.GET("/trainers", cfg.TrainerHandler.List)
		protected.GET("/trainers/:id", cfg.TrainerHandler.Get)
	}

	if cfg.NotificationHandler != nil {
		protected.POST("/notifications", vendorAdmin, cfg.NotificationHandler.Enqueue)
		protected.GET("/notifications/:id", cfg.NotificationHandler.Get)
	}

	if cfg.ContactHandler != nil {
		protected.GET("/contact", superAdmin, cfg.ContactHandler.List)
	}

	return r
}
