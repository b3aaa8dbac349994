package ledger

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/timlee789/account/internal/models"
)

// SalesBreakdown is the per-channel sum of the month's sales records.
type SalesBreakdown struct {
	Cash     decimal.Decimal `json:"cash"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	Doordash decimal.Decimal `json:"doordash"`
	Stripe   decimal.Decimal `json:"stripe"`
	Tips     decimal.Decimal `json:"tips"`
	CashTips decimal.Decimal `json:"cash_tips"`
}

// DashboardSummary is derived on every request and never stored.
type DashboardSummary struct {
	Month          string          `json:"month"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TotalExpense   decimal.Decimal `json:"totalExpense"`
	NetProfit      decimal.Decimal `json:"netProfit"`
	Balance        decimal.Decimal `json:"balance"`
	SalesBreakdown SalesBreakdown  `json:"salesBreakdown"`
}

// Snapshot is the set of rows a summary is computed from.
type Snapshot struct {
	Transactions []models.Transaction
	CreditCards  []models.CreditCardTransaction
	Cash         []models.CashRecord
	Sales        []models.SalesRecord
}

// Aggregator computes read-only views over the store.
type Aggregator struct {
	db      *gorm.DB
	policy  Policy
	balance BalancePolicy
}

func NewAggregator(db *gorm.DB, policy Policy, balance BalancePolicy) *Aggregator {
	if balance == nil {
		balance = MonthBalance{}
	}
	return &Aggregator{db: db, policy: policy, balance: balance}
}

// DashboardSummary totals the month (YYYY-MM). An empty month covers every
// record. Every table is read inside one transaction so the figures come from
// the same snapshot even while edits are landing.
func (a *Aggregator) DashboardSummary(ctx context.Context, month string) (DashboardSummary, error) {
	var start, end string
	if month != "" {
		var err error
		if start, end, err = MonthRange(month); err != nil {
			return DashboardSummary{}, err
		}
		month = start[:7]
	}

	var snap, balanceRows Snapshot
	err := a.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := inPeriod(tx, start, end).Find(&snap.Transactions).Error; err != nil {
			return fmt.Errorf("transactions: %w", err)
		}
		if err := inPeriod(tx, start, end).Find(&snap.CreditCards).Error; err != nil {
			return fmt.Errorf("credit cards: %w", err)
		}
		if err := inPeriod(tx, start, end).Find(&snap.Cash).Error; err != nil {
			return fmt.Errorf("cash: %w", err)
		}
		if err := inPeriod(tx, start, end).Find(&snap.Sales).Error; err != nil {
			return fmt.Errorf("sales: %w", err)
		}

		since := a.balance.Since(start)
		if since == start {
			balanceRows = Snapshot{Transactions: snap.Transactions, Cash: snap.Cash, Sales: snap.Sales}
			return nil
		}
		if err := inPeriod(tx, since, end).Find(&balanceRows.Cash).Error; err != nil {
			return fmt.Errorf("balance cash: %w", err)
		}
		if err := inPeriod(tx, since, end).Find(&balanceRows.Transactions).Error; err != nil {
			return fmt.Errorf("balance transactions: %w", err)
		}
		if err := inPeriod(tx, since, end).Find(&balanceRows.Sales).Error; err != nil {
			return fmt.Errorf("balance sales: %w", err)
		}
		return nil
	})
	if err != nil {
		return DashboardSummary{}, fmt.Errorf("dashboard summary: %w", err)
	}

	summary := Summarize(a.policy, snap, a.balance.Balance(balanceRows))
	summary.Month = month
	return summary, nil
}

func inPeriod(tx *gorm.DB, start, end string) *gorm.DB {
	q := tx.Order("date ASC, id ASC")
	if start != "" {
		q = q.Where("date >= ?", start)
	}
	if end != "" {
		q = q.Where("date < ?", end)
	}
	return q
}

// Summarize is the pure part of the dashboard: the same snapshot always
// produces the same summary.
func Summarize(p Policy, snap Snapshot, balance decimal.Decimal) DashboardSummary {
	revenue, expense := decimal.Zero, decimal.Zero
	var sb SalesBreakdown

	for _, s := range snap.Sales {
		revenue = revenue.Add(s.ChannelTotal())
		sb.Cash = sb.Cash.Add(s.Cash)
		sb.Debit = sb.Debit.Add(s.Debit)
		sb.Credit = sb.Credit.Add(s.Credit)
		sb.Doordash = sb.Doordash.Add(s.Doordash)
		sb.Stripe = sb.Stripe.Add(s.Stripe)
		sb.Tips = sb.Tips.Add(s.Tips)
		sb.CashTips = sb.CashTips.Add(s.CashTips)
	}
	for _, t := range snap.Transactions {
		if p.CountsAsRevenue(t.Category) {
			revenue = revenue.Add(t.Income)
		}
		if p.CountsAsExpense(t.Category) {
			expense = expense.Add(t.Expense)
		}
	}
	for _, c := range snap.Cash {
		if p.CountsAsRevenue(c.Category) {
			revenue = revenue.Add(c.Income)
		}
		if p.CountsAsExpense(c.Category) {
			expense = expense.Add(c.Expense)
		}
	}
	for _, cc := range snap.CreditCards {
		if p.CountsAsExpense(cc.Category) {
			expense = expense.Add(cc.Expense)
		}
	}

	return DashboardSummary{
		TotalRevenue:   revenue,
		TotalExpense:   expense,
		NetProfit:      revenue.Sub(expense),
		Balance:        balance,
		SalesBreakdown: sb,
	}
}
