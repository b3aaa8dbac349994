package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/timlee789/account/internal/models"
)

const (
	RollupRecord   = "record"
	RollupSubtotal = "subtotal"
)

// MonthSubtotal sums one calendar month of sales records.
type MonthSubtotal struct {
	Month    string          `json:"month"`
	Count    int             `json:"count"`
	Cash     decimal.Decimal `json:"cash"`
	Debit    decimal.Decimal `json:"debit"`
	Credit   decimal.Decimal `json:"credit"`
	CashTips decimal.Decimal `json:"cash_tips"`
	Doordash decimal.Decimal `json:"doordash"`
	Stripe   decimal.Decimal `json:"stripe"`
	Total    decimal.Decimal `json:"total"`
}

func (m *MonthSubtotal) add(r models.SalesRecord) {
	m.Count++
	m.Cash = m.Cash.Add(r.Cash)
	m.Debit = m.Debit.Add(r.Debit)
	m.Credit = m.Credit.Add(r.Credit)
	m.CashTips = m.CashTips.Add(r.CashTips)
	m.Doordash = m.Doordash.Add(r.Doordash)
	m.Stripe = m.Stripe.Add(r.Stripe)
	m.Total = m.Total.Add(r.ChannelTotal())
}

// RollupRow is either a sales record or the subtotal closing its month.
type RollupRow struct {
	Type     string              `json:"type"`
	Record   *models.SalesRecord `json:"record,omitempty"`
	Subtotal *MonthSubtotal      `json:"subtotal,omitempty"`
}

// MonthlySalesRollup orders records newest first and closes every month with a
// subtotal row. The input slice is not modified.
func MonthlySalesRollup(records []models.SalesRecord) []RollupRow {
	if len(records) == 0 {
		return []RollupRow{}
	}
	sorted := make([]models.SalesRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })

	out := make([]RollupRow, 0, len(sorted)+len(sorted)/20+1)
	var cur *MonthSubtotal
	for i := range sorted {
		rec := sorted[i]
		month := monthOf(rec.Date)
		if cur != nil && cur.Month != month {
			out = append(out, RollupRow{Type: RollupSubtotal, Subtotal: cur})
			cur = nil
		}
		if cur == nil {
			cur = &MonthSubtotal{Month: month}
		}
		cur.add(rec)
		out = append(out, RollupRow{Type: RollupRecord, Record: &rec})
	}
	return append(out, RollupRow{Type: RollupSubtotal, Subtotal: cur})
}

func monthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}
