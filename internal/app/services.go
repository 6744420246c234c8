package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
	"github.com/yungbote/trainermatch-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Dashboard    services.DashboardService
	Document     services.DocumentService
	Upload       services.UploadService
	Requirement  services.RequirementService
	Match        services.MatchService
	Trainer      services.TrainerService
	Notification services.NotificationService
	Contact      services.ContactService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos, c Clients) Services {
	log.Info("Wiring services...")
	notifications := services.NewNotificationService(db, log, r.NotificationJob, c.Queue)
	return Services{
		Auth: services.NewAuthService(db, log, r.User, r.Vendor, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Dashboard: services.NewDashboardService(db, log,
			r.User, r.Vendor, r.College, r.Trainer, r.Requirement, r.Match, r.Session,
		),
		Document:     services.NewDocumentService(db, log, r.Document, r.College, r.Requirement),
		Upload:       services.NewUploadService(log, c.Bucket),
		Requirement:  services.NewRequirementService(db, log, r.Requirement),
		Match:        services.NewMatchService(db, log, r.Match, r.Proposal, r.Requirement, notifications),
		Trainer:      services.NewTrainerService(log, r.Trainer),
		Notification: notifications,
		Contact:      services.NewContactService(log, r.Contact),
	}
}
