package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/data/repos/documents"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/jobs"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/requirements"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/sessions"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/trainers"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/user"
	"github.com/yungbote/trainermatch-backend/internal/data/repos/vendors"
	"github.com/yungbote/trainermatch-backend/internal/platform/logger"
)

type UserRepo = user.UserRepo
type VendorRepo = vendors.VendorRepo
type CollegeRepo = vendors.CollegeRepo
type TrainerRepo = trainers.TrainerRepo
type TrainerListFilter = trainers.ListFilter
type RequirementRepo = requirements.RequirementRepo
type RequirementListFilter = requirements.ListFilter
type MatchRepo = requirements.MatchRepo
type ProposalRepo = requirements.ProposalRepo
type SessionRepo = sessions.SessionRepo
type DocumentRepo = documents.DocumentRepo
type DocumentListFilter = documents.ListFilter
type ContactRepo = documents.ContactRepo
type NotificationJobRepo = jobs.NotificationJobRepo
type ClaimOutcome = jobs.ClaimOutcome

const (
	ClaimAcquired = jobs.ClaimAcquired
	ClaimBusy     = jobs.ClaimBusy
	ClaimSkipped  = jobs.ClaimSkipped
)

func NewUserRepo(db *gorm.DB, log *logger.Logger) UserRepo { return user.NewUserRepo(db, log) }
func NewVendorRepo(db *gorm.DB, log *logger.Logger) VendorRepo {
	return vendors.NewVendorRepo(db, log)
}
func NewCollegeRepo(db *gorm.DB, log *logger.Logger) CollegeRepo {
	return vendors.NewCollegeRepo(db, log)
}
func NewTrainerRepo(db *gorm.DB, log *logger.Logger) TrainerRepo {
	return trainers.NewTrainerRepo(db, log)
}
func NewRequirementRepo(db *gorm.DB, log *logger.Logger) RequirementRepo {
	return requirements.NewRequirementRepo(db, log)
}
func NewMatchRepo(db *gorm.DB, log *logger.Logger) MatchRepo {
	return requirements.NewMatchRepo(db, log)
}
func NewProposalRepo(db *gorm.DB, log *logger.Logger) ProposalRepo {
	return requirements.NewProposalRepo(db, log)
}
func NewSessionRepo(db *gorm.DB, log *logger.Logger) SessionRepo {
	return sessions.NewSessionRepo(db, log)
}
func NewDocumentRepo(db *gorm.DB, log *logger.Logger) DocumentRepo {
	return documents.NewDocumentRepo(db, log)
}
func NewContactRepo(db *gorm.DB, log *logger.Logger) ContactRepo {
	return documents.NewContactRepo(db, log)
}
func NewNotificationJobRepo(db *gorm.DB, log *logger.Logger) NotificationJobRepo {
	return jobs.NewNotificationJobRepo(db, log)
}
