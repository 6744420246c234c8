package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type Repos struct {
	User            repos.UserRepo
	Vendor          repos.VendorRepo
	College         repos.CollegeRepo
	Trainer         repos.TrainerRepo
	Requirement     repos.RequirementRepo
	Match           repos.MatchRepo
	Proposal        repos.ProposalRepo
	Session         repos.SessionRepo
	Document        repos.DocumentRepo
	Contact         repos.ContactRepo
	NotificationJob repos.NotificationJobRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Vendor:          repos.NewVendorRepo(db, log),
		College:         repos.NewCollegeRepo(db, log),
		Trainer:         repos.NewTrainerRepo(db, log),
		Requirement:     repos.NewRequirementRepo(db, log),
		Match:           repos.NewMatchRepo(db, log),
		Proposal:        repos.NewProposalRepo(db, log),
		Session:         repos.NewSessionRepo(db, log),
		Document:        repos.NewDocumentRepo(db, log),
		Contact:         repos.NewContactRepo(db, log),
		NotificationJob: repos.NewNotificationJobRepo(db, log),
	}
}
