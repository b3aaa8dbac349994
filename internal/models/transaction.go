package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// the dashboard and tables read amounts as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// LedgerFields is the shared shape of a bank ledger row and a credit-card row.
type LedgerFields struct {
	Date          string          `gorm:"size:10;index;not null" json:"date"`
	Category      string          `gorm:"size:64" json:"category"`
	Payee         string          `gorm:"size:128" json:"payee"`
	PayeeNote     string          `gorm:"size:255" json:"payee_note"`
	Income        decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"income"`
	Expense       decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"expense"`
	CashAmount    decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"cash_amount"` // signed: + skimmed into hand, - deposited
	BankBalance   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"bank_balance"` // as reported by the bank, display only
	Description   string          `gorm:"type:text" json:"description"`
	AccountSource string          `gorm:"size:64;index" json:"account_source"`

	Fingerprint string    `gorm:"size:512;index" json:"-"`
	BatchID     string    `gorm:"column:import_batch;size:36;index" json:"-"`
	CreatedAt   time.Time `json:"-"`
	UpdatedAt   time.Time `json:"-"`
}

// Transaction is a bank ledger row.
type Transaction struct {
	ID uint `gorm:"primaryKey" json:"id"`
	LedgerFields
}

// CreditCardTransaction is a card charge or credit, kept apart from the bank ledger.
type CreditCardTransaction struct {
	ID uint `gorm:"primaryKey" json:"id"`
	LedgerFields
}

func (CreditCardTransaction) TableName() string {
	return "credit_card_records"
}
