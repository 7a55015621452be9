package models

import "time"

// User roles. Registration defaults to patient; admin is never
// self-assignable through the public API.
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
)

// User represents a portal account: patient, doctor or admin.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"size:128;uniqueIndex;not null" json:"email"`
	Name         string `gorm:"size:64" json:"name"`
	Role         string `gorm:"size:16;index;not null;default:patient" json:"role"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	// set for doctors only, checked against the license registry
	LicenseNumber string `gorm:"size:32" json:"license_number,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// KnownRole reports whether s is a role accepted at registration.
func KnownRole(s string) bool {
	return s == RolePatient || s == RoleDoctor
}
