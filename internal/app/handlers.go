package app

import (
	"github.com/yungbote/trainermatch-backend/internal/http"
	httpH "github.com/yungbote/trainermatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/trainermatch-backend/internal/http/middleware"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health       *httpH.HealthHandler
	Auth         *httpH.AuthHandler
	Dashboard    *httpH.DashboardHandler
	Document     *httpH.DocumentHandler
	Upload       *httpH.UploadHandler
	Requirement  *httpH.RequirementHandler
	Match        *httpH.MatchHandler
	Trainer      *httpH.TrainerHandler
	Notification *httpH.NotificationHandler
	Contact      *httpH.ContactHandler
}

func wireMiddleware(log *logger.Logger, s Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{Auth: httpMW.NewAuthMiddleware(log, s.Auth)}
}

func wireHandlers(log *logger.Logger, s Services, pinger httpH.Pinger) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:       httpH.NewHealthHandler(pinger),
		Auth:         httpH.NewAuthHandler(log, s.Auth),
		Dashboard:    httpH.NewDashboardHandler(log, s.Dashboard),
		Document:     httpH.NewDocumentHandler(log, s.Document),
		Upload:       httpH.NewUploadHandler(log, s.Upload),
		Requirement:  httpH.NewRequirementHandler(log, s.Requirement, s.Match),
		Match:        httpH.NewMatchHandler(log, s.Match),
		Trainer:      httpH.NewTrainerHandler(log, s.Trainer),
		Notification: httpH.NewNotificationHandler(log, s.Notification),
		Contact:      httpH.NewContactHandler(log, s.Contact),
	}
}

func wireServer(log *logger.Logger, cfg Config, h Handlers, mw Middleware) *http.Server {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return http.NewServer(http.RouterConfig{
		Log:                 log,
		ServiceName:         serviceName,
		CORSOrigins:         cfg.CORSOrigins,
		AuthMiddleware:      mw.Auth,
		HealthHandler:       h.Health,
		AuthHandler:         h.Auth,
		DashboardHandler:    h.Dashboard,
		DocumentHandler:     h.Document,
		UploadHandler:       h.Upload,
		RequirementHandler:  h.Requirement,
		MatchHandler:        h.Match,
		TrainerHandler:      h.Trainer,
		NotificationHandler: h.Notification,
		ContactHandler:      h.Contact,
	})
}
