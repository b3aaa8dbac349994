package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/timlee789/account/internal/models"
)

const (
	BalanceMonth        = "month"
	BalanceCarryForward = "carry_forward"
	BalanceRegisterCash = "register_cash"
)

// BalancePolicy estimates cash on hand for a dashboard period.
type BalancePolicy interface {
	Name() string
	// Since returns the first date whose rows count toward the balance of a
	// period starting at start. An empty result means since tracking began.
	Since(start string) string
	// Balance folds the rows dated [Since(start), end) into one figure.
	// Only Cash, Transactions and Sales of the snapshot are filled in.
	Balance(rows Snapshot) decimal.Decimal
}

// MonthBalance only counts cash movements inside the month itself.
type MonthBalance struct{}

func (MonthBalance) Name() string { return BalanceMonth }
func (MonthBalance) Since(start string) string { return start }
func (MonthBalance) Balance(rows Snapshot) decimal.Decimal {
	return cashFlow(rows.Cash, rows.Transactions)
}

// CarryForwardBalance counts every cash movement up to the end of the month,
// so the figure is a running total since tracking began.
type CarryForwardBalance struct{}

func (CarryForwardBalance) Name() string { return BalanceCarryForward }
func (CarryForwardBalance) Since(string) string { return "" }
func (CarryForwardBalance) Balance(rows Snapshot) decimal.Decimal {
	return cashFlow(rows.Cash, rows.Transactions)
}

// RegisterCashBalance is the cash the register took in during the month,
// cash sales plus cash tips, less the cash_amount moved out with bank
// transactions. The manual cash book is not part of it.
type RegisterCashBalance struct{}

func (RegisterCashBalance) Name() string { return BalanceRegisterCash }
func (RegisterCashBalance) Since(start string) string { return start }
func (RegisterCashBalance) Balance(rows Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, s := range rows.Sales {
		total = total.Add(s.Cash).Add(s.CashTips)
	}
	for _, t := range rows.Transactions {
		total = total.Sub(t.CashAmount)
	}
	return total
}

// cashFlow is Σ cash (income - expense) + Σ ledger cash_amount. A positive
// cash_amount is money taken into hand at the time of the bank movement.
func cashFlow(cash []models.CashRecord, txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, c := range cash {
		total = total.Add(c.Income).Sub(c.Expense)
	}
	for _, t := range txns {
		total = total.Add(t.CashAmount)
	}
	return total
}

// NewBalancePolicy returns the named strategy.
func NewBalancePolicy(name string) (BalancePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BalanceMonth:
		return MonthBalance{}, nil
	case BalanceCarryForward:
		return CarryForwardBalance{}, nil
	case BalanceRegisterCash:
		return RegisterCashBalance{}, nil
	default:
		return nil, fmt.Errorf("unknown balance policy %q", name)
	}
}
