package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashRecord is a manually entered cash movement.
// Balance is whatever the user typed; nothing keeps it consistent with other rows.
type CashRecord struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        string          `gorm:"size:10;index;not null" json:"date"`
	Category    string          `gorm:"size:64" json:"category"`
	Payee       string          `gorm:"size:128" json:"payee"`
	Income      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"income"`
	Expense     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"expense"`
	Balance     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"balance"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"-"`
	UpdatedAt   time.Time       `json:"-"`
}
