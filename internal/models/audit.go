package models

import "time"

// AuditLog records access to authenticated API routes. Path, action and
// metadata are stored AES-encrypted when an encryption key is configured.
type AuditLog struct {
	ID        uint  `gorm:"primaryKey"`
	UserID    *uint `gorm:"index"`
	Path      string `gorm:"size:1024"`
	Method    string `gorm:"size:16"`
	Action    string `gorm:"size:2048"`
	Metadata  string `gorm:"size:4096"`
	IP        string `gorm:"size:64"`
	UserAgent string `gorm:"size:255"`
	CreatedAt time.Time
}
