package ledger

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/timlee789/account/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedMarch(t *testing.T, db *gorm.DB) {
	t.Helper()
	rows := []any{
		&models.SalesRecord{Date: "2024-03-01", Cash: d("100"), Credit: d("200"), Tips: d("10"), CashTips: d("5"), Total: d("315")},
		&models.SalesRecord{Date: "2024-03-02", Doordash: d("40"), Stripe: d("60"), Total: d("100")},
		&models.SalesRecord{Date: "2024-02-28", Cash: d("999"), Total: d("999")},
		&models.Transaction{LedgerFields: models.LedgerFields{Date: "2024-03-03", Category: CategorySalesDeposit, Income: d("300")}},
		&models.Transaction{LedgerFields: models.LedgerFields{Date: "2024-03-04", Category: "Rent", Expense: d("1000"), CashAmount: d("50")}},
		&models.Transaction{LedgerFields: models.LedgerFields{Date: "2024-03-05", Category: CategoryUnknown, Expense: d("77")}},
		&models.Transaction{LedgerFields: models.LedgerFields{Date: "2024-02-10", Category: "Rent", Expense: d("1000"), CashAmount: d("30")}},
		&models.CreditCardTransaction{LedgerFields: models.LedgerFields{Date: "2024-03-06", Category: "Food Material", Expense: d("120")}},
		&models.CreditCardTransaction{LedgerFields: models.LedgerFields{Date: "2024-03-07", Category: "Card Payment", Income: d("500")}},
		&models.CashRecord{Date: "2024-03-08", Category: CategoryCashIncome, Income: d("25")},
		&models.CashRecord{Date: "2024-03-09", Category: "Wages", Expense: d("80")},
		&models.CashRecord{Date: "2024-02-01", Category: CategoryCashIncome, Income: d("400")},
		&models.CashRecord{Date: "2024-04-01", Category: CategoryCashIncome, Income: d("1")},
	}
	for _, r := range rows {
		if err := db.Create(r).Error; err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func TestDashboardSummary_Month(t *testing.T) {
	db := setupTestDB(t)
	seedMarch(t, db)
	agg := NewAggregator(db, DefaultPolicy(), MonthBalance{})

	got, err := agg.DashboardSummary(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("DashboardSummary error = %v", err)
	}

	// sales 415 + cash income 25; the Sales Deposit is the same money as the sales
	checks := map[string][2]decimal.Decimal{
		"totalRevenue": {got.TotalRevenue, d("440")},
		// rent 1000 + card food 120 + wages 80; Don't Know is excluded
		"totalExpense": {got.TotalExpense, d("1200")},
		"netProfit":    {got.NetProfit, d("-760")},
		// cash 25 - 80 + cash_amount 50
		"balance":            {got.Balance, d("-5")},
		"salesBreakdown.cash": {got.SalesBreakdown.Cash, d("100")},
		"salesBreakdown.tips": {got.SalesBreakdown.Tips, d("10")},
		"salesBreakdown.cash_tips": {got.SalesBreakdown.CashTips, d("5")},
		"salesBreakdown.stripe":    {got.SalesBreakdown.Stripe, d("60")},
	}
	for name, c := range checks {
		if !c[0].Equal(c[1]) {
			t.Errorf("%s = %s, want %s", name, c[0], c[1])
		}
	}
	if got.Month != "2024-03" {
		t.Errorf("Month = %q", got.Month)
	}
}

func TestDashboardSummary_DepositCountedWhenSalesNotAuthoritative(t *testing.T) {
	db := setupTestDB(t)
	seedMarch(t, db)
	agg := NewAggregator(db, Policy{SalesAuthoritative: false}, MonthBalance{})

	got, err := agg.DashboardSummary(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("DashboardSummary error = %v", err)
	}
	if !got.TotalRevenue.Equal(d("740")) {
		t.Errorf("totalRevenue = %s, want 740", got.TotalRevenue)
	}
}

func TestDashboardSummary_CarryForward(t *testing.T) {
	db := setupTestDB(t)
	seedMarch(t, db)
	agg := NewAggregator(db, DefaultPolicy(), CarryForwardBalance{})

	got, err := agg.DashboardSummary(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("DashboardSummary error = %v", err)
	}
	// February adds 400 cash income and 30 skimmed; April is not counted
	if !got.Balance.Equal(d("425")) {
		t.Errorf("balance = %s, want 425", got.Balance)
	}
}

func TestDashboardSummary_EmptyMonth(t *testing.T) {
	db := setupTestDB(t)
	agg := NewAggregator(db, DefaultPolicy(), nil)

	got, err := agg.DashboardSummary(context.Background(), "1999-01")
	if err != nil {
		t.Fatalf("DashboardSummary error = %v, want nil", err)
	}
	if !got.TotalRevenue.IsZero() || !got.TotalExpense.IsZero() || !got.NetProfit.IsZero() || !got.Balance.IsZero() {
		t.Errorf("empty month summary = %+v, want zeros", got)
	}

	raw, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["totalRevenue"].(float64); !ok {
		t.Errorf("totalRevenue encoded as %T, want a JSON number", decoded["totalRevenue"])
	}
	if _, ok := decoded["salesBreakdown"].(map[string]any)["cash_tips"]; !ok {
		t.Errorf("salesBreakdown missing cash_tips: %s", raw)
	}
}

func TestDashboardSummary_BadMonth(t *testing.T) {
	db := setupTestDB(t)
	agg := NewAggregator(db, DefaultPolicy(), nil)
	if _, err := agg.DashboardSummary(context.Background(), "March"); !IsValidation(err) {
		t.Errorf("error = %v, want ValidationError", err)
	}
}

func TestDashboardSummary_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	seedMarch(t, db)
	agg := NewAggregator(db, DefaultPolicy(), CarryForwardBalance{})
	ctx := context.Background()

	first, err := agg.DashboardSummary(ctx, "2024-03")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := agg.DashboardSummary(ctx, "2024-03")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("summaries differ:\n%s\n%s", a, b)
	}
}

func TestSummarize_DoesNotTouchInput(t *testing.T) {
	snap := Snapshot{
		Sales: []models.SalesRecord{{Date: "2024-01-01", Cash: d("10"), Total: d("10")}},
		Cash:  []models.CashRecord{{Date: "2024-01-02", Category: "Other", Income: d("5")}},
	}
	got := Summarize(DefaultPolicy(), snap, decimal.Zero)
	if !got.TotalRevenue.Equal(d("10")) {
		t.Errorf("totalRevenue = %s, want 10 (Other is unclassified)", got.TotalRevenue)
	}
	if !snap.Sales[0].Cash.Equal(d("10")) {
		t.Error("Summarize modified its input")
	}
}

func TestDashboardSummary_RegisterCashBalance(t *testing.T) {
	db := setupTestDB(t)
	seedMarch(t, db)
	agg := NewAggregator(db, DefaultPolicy(), RegisterCashBalance{})

	got, err := agg.DashboardSummary(context.Background(), "2024-03")
	if err != nil {
		t.Fatalf("DashboardSummary error = %v", err)
	}
	// sales cash 100 + cash tips 5 - cash_amount 50
	if !got.Balance.Equal(d("55")) {
		t.Errorf("balance = %s, want 55", got.Balance)
	}

	p, err := NewBalancePolicy("register_cash")
	if err != nil || p.Name() != BalanceRegisterCash {
		t.Errorf("NewBalancePolicy(register_cash) = %v, %v", p, err)
	}
}
