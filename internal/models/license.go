package models

import "time"

// ProfessionalLicense is a registry row for a medical professional ID.
// The registry may be empty; membership is only enforced once seeded.
type ProfessionalLicense struct {
	ID         uint   `gorm:"primaryKey"`
	Number     string `gorm:"size:32;uniqueIndex;not null"`
	Profession string `gorm:"size:64"`
	HolderName string `gorm:"size:64"`
	Active     bool   `gorm:"not null;default:true"`
	CreatedAt  time.Time
}
