package models

import (
	"time"

	"gorm.io/datatypes"
)

// Health record categories the portal tracks.
const (
	CategoryBloodPressure = "blood_pressure"
	CategoryGlucose       = "glucose"
	CategoryWeight        = "weight"
	CategoryHeartRate     = "heart_rate"
	CategoryMedications   = "medications"
	CategoryAppointments  = "appointments"
)

// Categories lists all known health record categories.
var Categories = []string{
	CategoryBloodPressure,
	CategoryGlucose,
	CategoryWeight,
	CategoryHeartRate,
	CategoryMedications,
	CategoryAppointments,
}

// KnownCategory reports whether s is a tracked category key.
func KnownCategory(s string) bool {
	for _, c := range Categories {
		if s == c {
			return true
		}
	}
	return false
}

// HealthEntry is one measurement or event in a user's record.
// The payload is schemaless JSON; when an encryption key is configured
// only the ciphertext column is populated.
type HealthEntry struct {
	ID         uint           `gorm:"primaryKey"`
	UserID     uint           `gorm:"index;not null"`
	Category   string         `gorm:"size:32;index;not null"`
	Payload    datatypes.JSON `gorm:"type:text"` // plaintext JSON (no key configured)
	PayloadEnc string         `gorm:"type:text"` // AES-GCM ciphertext, base64
	RecordedAt time.Time      `gorm:"index;not null"`
	CreatedAt  time.Time
}
