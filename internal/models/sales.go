package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesRecord is one day of register sales, keyed by its date.
type SalesRecord struct {
	ID       uint            `gorm:"primaryKey" json:"id"`
	Date     string          `gorm:"size:10;uniqueIndex;not null" json:"date"`
	Cash     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cash"`
	Debit    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"debit"`
	Credit   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"credit"`
	Svc      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"svc"`
	Tips     decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"tips"`
	Tax      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"tax"`
	CashTips decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cash_tips"`
	Doordash decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"doordash"`
	Stripe   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"stripe"`
	Total    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"total"`
	Memo     string          `gorm:"type:text" json:"memo"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// ChannelTotal is the sum of the nine channel fields. Total must always equal it.
func (s SalesRecord) ChannelTotal() decimal.Decimal {
	return decimal.Sum(s.Cash, s.Debit, s.Credit, s.Svc, s.Tips, s.Tax, s.CashTips, s.Doordash, s.Stripe)
}
