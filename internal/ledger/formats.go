package ledger

import (
	"fmt"
	"strings"
)

// SourceFormat maps the columns of one known export onto canonical fields.
// Column lists are tried in order; the first header present wins.
type SourceFormat struct {
	Name          string
	Label         string
	Kind          SourceKind
	AccountSource string
	// Detect holds alternative header sets; the format matches when every
	// header of any one set is present.
	Detect [][]string
	// Generic formats share headers across kinds and only match the declared target.
	Generic bool

	Date        []string
	Description []string
	Amount      string
	Debit       string
	Credit      string
	Balance     string

	Vendor       string
	VendorColumn string
	ProductName  string
	ProductCode  string
	Quantity     string
	Unit         string
	UnitPrice    string
	TotalPrice   string
}

// Formats lists the exports the importer understands, most specific first.
var Formats = []SourceFormat{
	{
		Name: "usfoods", Label: "US Foods invoice", Kind: SourceInvoice,
		Detect:      [][]string{{"ProductDescription", "ExtendedPrice"}},
		Vendor:      "US Foods",
		ProductName: "ProductDescription", ProductCode: "ProductNumber",
		Quantity: "QtyShip", Unit: "PricingUnit", UnitPrice: "UnitPrice", TotalPrice: "ExtendedPrice",
	},
	{
		Name: "truist", Label: "Bank CSV", Kind: SourceBank, AccountSource: "Main Bank (Truist)",
		Detect:      [][]string{{"Posted Date", "Full description"}},
		Date:        []string{"Transaction Date", "Posted Date"},
		Description: []string{"Full description", "Description"},
		Amount:      "Amount",
		Balance:     "Daily Posted Balance",
	},
	{
		Name: "chase", Label: "Credit Card CSV", Kind: SourceCreditCard, AccountSource: "Chase CC",
		Detect:      [][]string{{"Card"}, {"Transaction Date", "Post Date"}},
		Date:        []string{"Transaction Date", "Post Date"},
		Description: []string{"Description"},
		Amount:      "Amount",
	},
	{
		Name: "citi", Label: "Credit Card CSV", Kind: SourceCreditCard, AccountSource: "Citi CC",
		Detect:      [][]string{{"Status", "Debit", "Credit"}},
		Date:        []string{"Date"},
		Description: []string{"Description"},
		Debit:       "Debit", Credit: "Credit",
	},
	{
		Name: "bank", Label: "Bank CSV", Kind: SourceBank, AccountSource: "Bank", Generic: true,
		Detect:      [][]string{{"Date", "Description", "Amount"}},
		Date:        []string{"Date"},
		Description: []string{"Description"},
		Amount:      "Amount",
		Balance:     "Balance",
	},
	{
		Name: "card", Label: "Credit Card CSV", Kind: SourceCreditCard, AccountSource: "Credit Card", Generic: true,
		Detect:      [][]string{{"Date", "Description", "Amount"}},
		Date:        []string{"Date"},
		Description: []string{"Description"},
		Amount:      "Amount",
	},
	{
		Name: "invoice", Label: "invoice", Kind: SourceInvoice, Generic: true,
		Detect:       [][]string{{"Date", "Product", "Unit Price"}},
		Date:         []string{"Date"},
		VendorColumn: "Vendor",
		ProductName:  "Product", ProductCode: "Code",
		Quantity: "Quantity", Unit: "Unit", UnitPrice: "Unit Price", TotalPrice: "Total",
	},
}

// tabLabels names the screen each kind of upload belongs on.
var tabLabels = map[SourceKind]string{
	SourceBank:       "Financial Ledger",
	SourceCreditCard: "Credit Card",
	SourceInvoice:    "Expense Detail",
}

// ParseTarget reads the upload's target_tab. Empty means detect from headers.
func ParseTarget(tab string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(tab)) {
	case "":
		return "", nil
	case "ledger", "bank", "transactions":
		return SourceBank, nil
	case "credit_card", "credit-card", "credit-cards", "card":
		return SourceCreditCard, nil
	case "invoice", "invoices", "expense":
		return SourceInvoice, nil
	default:
		return "", invalid("target_tab", "unknown target %q", tab)
	}
}

func (f SourceFormat) matches(headers map[string]struct{}) bool {
	for _, set := range f.Detect {
		all := true
		for _, h := range set {
			if _, ok := headers[h]; !ok {
				all = false
				break
			}
		}
		if all {
			return true
		}
	}
	return false
}

// DetectFormat picks the format of a file from its header row. A recognised
// export uploaded to the wrong target is rejected with a pointer to the right one.
func DetectFormat(headers []string, target SourceKind) (SourceFormat, error) {
	set := make(map[string]struct{}, len(headers))
	for _, h := range headers {
		set[strings.TrimSpace(h)] = struct{}{}
	}
	for _, f := range Formats {
		if !f.matches(set) {
			continue
		}
		if f.Generic {
			if f.Kind == target || (target == "" && f.Kind == SourceBank) {
				return f, nil
			}
			continue
		}
		if target != "" && f.Kind != target {
			return SourceFormat{}, &ValidationError{
				Reason: fmt.Sprintf("Please upload this %s on the %s tab.", f.Label, tabLabels[f.Kind]),
			}
		}
		return f, nil
	}
	return SourceFormat{}, &ValidationError{Reason: "Unknown format: unrecognized column headers"}
}

// FormatByName returns a registered format.
func FormatByName(name string) (SourceFormat, bool) {
	for _, f := range Formats {
		if f.Name == name {
			return f, true
		}
	}
	return SourceFormat{}, false
}
