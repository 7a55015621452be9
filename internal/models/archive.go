package models

import "time"

// Archive tracks an encrypted snapshot of a user's health record.
type Archive struct {
	ID        uint   `gorm:"primaryKey"`
	UserID    uint   `gorm:"index;not null"`
	FileName  string `gorm:"size:128;not null"`
	FilePath  string `gorm:"size:255;not null"`
	Size      int64
	CreatedAt time.Time
}
