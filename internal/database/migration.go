package database

import (
	"fmt"

	"telecare/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.HealthEntry{},
		&models.Appointment{},
		&models.ProfessionalLicense{},
		&models.AuditLog{},
		&models.Archive{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
