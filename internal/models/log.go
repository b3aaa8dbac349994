package models

import "time"

// AuditLog records every mutating API request.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Method    string    `gorm:"size:16" json:"method"`
	Path      string    `gorm:"size:255;index" json:"path"`
	Status    int       `json:"status"`
	IP        string    `gorm:"size:64" json:"ip"`
	UserAgent string    `gorm:"size:255" json:"user_agent"`
	Body      string    `gorm:"size:2048" json:"body"` // request body excerpt, uploads excluded
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
