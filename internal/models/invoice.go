package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItem is one line of a supplier invoice. Only the importer writes these.
type InvoiceItem struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Date        string          `gorm:"size:10;index;not null" json:"date"`
	Vendor      string          `gorm:"size:128;index" json:"vendor"`
	ProductName string          `gorm:"size:255" json:"product_name"`
	ProductCode string          `gorm:"size:64" json:"product_code"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"quantity"`
	Unit        string          `gorm:"size:32" json:"unit"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total_price"`

	Fingerprint string    `gorm:"size:512;index" json:"-"`
	BatchID     string    `gorm:"column:import_batch;size:36;index" json:"-"`
	CreatedAt   time.Time `json:"-"`
}
