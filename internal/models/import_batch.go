package models

import "time"

// ImportBatch records one CSV upload and its outcome.
type ImportBatch struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"` // uuid
	Kind          string    `gorm:"size:16;index;not null" json:"kind"`
	Format        string    `gorm:"size:32" json:"format"`
	FileName      string    `gorm:"size:255" json:"file_name"`
	AccountSource string    `gorm:"size:64" json:"account_source"`
	Imported      int       `json:"imported"`
	Skipped       int       `json:"skipped"`
	Warnings      int       `json:"warnings"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`
}
