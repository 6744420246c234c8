package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/trainermatch-backend/internal/domain"
)

// AutoMigrateAll creates tables together with their foreign keys so that
// deleting a vendor cascades to its requirements and detaches its users.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(domain.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func (s *Service) Migrate() error {
	s.log.Info("Running migrations")
	return AutoMigrateAll(s.db)
}

// Truncate removes all rows, children first. Used by the seed command.
func Truncate(tx *gorm.DB) error {
	models := domain.AllModels()
	for i := len(models) - 1; i >= 0; i-- {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(models[i]).Error; err != nil {
			return fmt.Errorf("truncate %T: %w", models[i], err)
		}
	}
	return nil
}
