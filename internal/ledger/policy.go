package ledger

import "strings"

const (
	CategorySalesDeposit = "Sales Deposit"
	CategoryCashIncome   = "Cash Income"
	CategoryUnknown      = "Don't Know"
	CategoryOther        = "Other"
)

// Categories is the suggested category vocabulary, in display order.
// Values outside the list are accepted everywhere.
var Categories = []string{
	CategorySalesDeposit, CategoryCashIncome,
	"Food Material", "Wages", "Utility", "Rent",
	"Tax", "Maintenance", "Service charges", "Insurance",
	"Advertising", "Car Gas", "Car Payment", "Home Food",
	"Home Etc", "Machine Lease", "Card Payment", "CASH OUT",
	CategoryUnknown, CategoryOther,
}

// Payees is the suggested payee vocabulary: vendors, staff, tax bodies, card issuers.
var Payees = []string{
	"PFG", "US Foods", "Costco", "Walmart", "Publix",
	"Georgia Power", "Liberty Utilities", "City of Gainesville",
	"Claudia Cheves", "Teresa Vega", "Carlos", "JoeAne Ask", "Mauricio Carrasco", "Lizbeth",
	"Auto-chlor system", "Best Linen Service", "Best Supply",
	"State Tax", "Federal Tax", "R J Neese", "Corp SH Lee CPA",
	"Chase Card", "Citi Card", "Amex",
}

// Classification says which totals a category feeds.
type Classification struct {
	IsIncome  bool `json:"is_income"`
	IsExpense bool `json:"is_expense"`
}

// Classify maps a category to income/expense. Unclassified rows ("Don't Know",
// "Other", blank) count toward neither total until someone reclassifies them.
// Any other value, listed or free text, is an expense category.
func Classify(category string) Classification {
	c := strings.TrimSpace(category)
	switch {
	case c == "", strings.EqualFold(c, CategoryUnknown), strings.EqualFold(c, CategoryOther):
		return Classification{}
	case strings.EqualFold(c, CategorySalesDeposit), strings.EqualFold(c, CategoryCashIncome):
		return Classification{IsIncome: true}
	default:
		return Classification{IsExpense: true}
	}
}

// Policy decides which source is authoritative when records overlap.
type Policy struct {
	// SalesAuthoritative counts sales once through SalesRecord.total and skips
	// "Sales Deposit" ledger rows, which are the bank side of the same money.
	SalesAuthoritative bool
}

// DefaultPolicy treats the daily sales register as the revenue source of truth.
func DefaultPolicy() Policy {
	return Policy{SalesAuthoritative: true}
}

// CountsAsRevenue reports whether the income of a ledger or cash row with this
// category belongs in total revenue.
func (p Policy) CountsAsRevenue(category string) bool {
	if !Classify(category).IsIncome {
		return false
	}
	if p.SalesAuthoritative && strings.EqualFold(strings.TrimSpace(category), CategorySalesDeposit) {
		return false
	}
	return true
}

// CountsAsExpense reports whether the expense of a row with this category
// belongs in total expense.
func (p Policy) CountsAsExpense(category string) bool {
	return Classify(category).IsExpense
}
