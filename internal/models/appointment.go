package models

import "time"

// Appointment statuses.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
)

// Appointment links a patient with a doctor at a scheduled time.
// Ref is the opaque booking reference exposed to clients.
type Appointment struct {
	ID          uint      `gorm:"primaryKey"`
	Ref         string    `gorm:"size:36;uniqueIndex;not null"`
	PatientID   uint      `gorm:"index;not null"`
	DoctorID    uint      `gorm:"index;not null"`
	ScheduledAt time.Time `gorm:"index;not null"`
	Status      string    `gorm:"size:16;index;not null;default:scheduled"`
	Reason      string    `gorm:"size:255"`
	Notes       string    `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Patient User `gorm:"foreignKey:PatientID;constraint:OnDelete:CASCADE"`
	Doctor  User `gorm:"foreignKey:DoctorID;constraint:OnDelete:CASCADE"`
}
