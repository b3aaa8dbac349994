package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/timlee789/account/internal/models"
)

// SourceKind selects which canonical record an imported row becomes.
type SourceKind string

const (
	SourceBank       SourceKind = "bank"
	SourceInvoice    SourceKind = "invoice"
	SourceCreditCard SourceKind = "credit_card"
)

// invoiceTolerance is how far a supplied invoice total may drift from quantity × unit price.
var invoiceTolerance = decimal.New(1, -2)

var errMissingProduct = errors.New("product name is empty")

// Row is one CSV data row keyed by its (trimmed) header.
type Row map[string]string

// Get returns the trimmed cell for the first column name present in the row.
func (r Row) Get(columns ...string) string {
	for _, c := range columns {
		if c == "" {
			continue
		}
		if v, ok := r[c]; ok {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// Blank reports whether every cell is empty. Exports often end with such rows.
func (r Row) Blank() bool {
	for _, v := range r {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// NormalizeOptions carries what the upload knows and the row does not.
type NormalizeOptions struct {
	// AccountSource overrides the format's default origin tag when set.
	AccountSource string
	// FallbackDate (YYYY-MM-DD) is used when the format has no date column.
	FallbackDate string
}

// NormalizedRow is exactly one of Entry (bank, credit_card) or Invoice.
type NormalizedRow struct {
	Kind     SourceKind
	Entry    *models.LedgerFields
	Invoice  *models.InvoiceItem
	Warnings []string
}

// Normalize maps one raw row of a known export format onto a canonical record.
// A missing or malformed date or amount is returned as an error; the caller
// records it against the row and moves on.
func Normalize(format SourceFormat, row Row, opts NormalizeOptions) (NormalizedRow, error) {
	switch format.Kind {
	case SourceBank, SourceCreditCard:
		entry, err := normalizeEntry(format, row, opts)
		if err != nil {
			return NormalizedRow{}, err
		}
		return NormalizedRow{Kind: format.Kind, Entry: entry}, nil
	case SourceInvoice:
		item, warnings, err := normalizeInvoice(format, row, opts)
		if err != nil {
			return NormalizedRow{}, err
		}
		return NormalizedRow{Kind: SourceInvoice, Invoice: item, Warnings: warnings}, nil
	default:
		return NormalizedRow{}, fmt.Errorf("unknown source kind %q", format.Kind)
	}
}

func normalizeEntry(f SourceFormat, row Row, opts NormalizeOptions) (*models.LedgerFields, error) {
	date, err := rowDate(f, row, opts)
	if err != nil {
		return nil, err
	}

	var income, expense decimal.Decimal
	if f.Debit != "" || f.Credit != "" {
		// split-column exports: Debit is money out, Credit is money in
		debitRaw, creditRaw := row.Get(f.Debit), row.Get(f.Credit)
		if debitRaw == "" && creditRaw == "" {
			return nil, fmt.Errorf("%s/%s: %w", f.Debit, f.Credit, ErrEmptyAmount)
		}
		debit, err := ParseOptionalAmount(debitRaw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Debit, err)
		}
		credit, err := ParseOptionalAmount(creditRaw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Credit, err)
		}
		income, expense = credit.Abs(), debit.Abs()
	} else {
		amount, err := ParseAmount(row.Get(f.Amount))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", f.Amount, err)
		}
		if amount.IsPositive() {
			income = amount
		} else {
			expense = amount.Abs()
		}
	}

	var balance decimal.Decimal
	if f.Balance != "" {
		// advisory only, an unreadable balance is not worth rejecting the row
		balance, _ = ParseOptionalAmount(row.Get(f.Balance))
	}

	source := f.AccountSource
	if opts.AccountSource != "" {
		source = opts.AccountSource
	}
	description := row.Get(f.Description...)

	return &models.LedgerFields{
		Date:          date,
		Category:      CategoryUnknown,
		Payee:         CategoryUnknown,
		Income:        income,
		Expense:       expense,
		CashAmount:    decimal.Zero,
		BankBalance:   balance,
		Description:   description,
		AccountSource: source,
		Fingerprint:   EntryFingerprint(date, description, income, expense),
	}, nil
}

func normalizeInvoice(f SourceFormat, row Row, opts NormalizeOptions) (*models.InvoiceItem, []string, error) {
	date, err := rowDate(f, row, opts)
	if err != nil {
		return nil, nil, err
	}
	name := row.Get(f.ProductName)
	if name == "" {
		return nil, nil, errMissingProduct
	}

	qty, err := ParseOptionalAmount(row.Get(f.Quantity))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", f.Quantity, err)
	}
	if qty.IsNegative() {
		return nil, nil, invalid("quantity", "must not be negative")
	}
	unitRaw, totalRaw := row.Get(f.UnitPrice), row.Get(f.TotalPrice)
	if unitRaw == "" && totalRaw == "" {
		return nil, nil, fmt.Errorf("%s: %w", f.TotalPrice, ErrEmptyAmount)
	}
	unitPrice, err := ParseOptionalAmount(unitRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", f.UnitPrice, err)
	}
	if unitPrice.IsNegative() {
		return nil, nil, invalid("unit_price", "must not be negative")
	}

	computed := qty.Mul(unitPrice)
	total := computed
	var warnings []string
	if totalRaw != "" {
		total, err = ParseAmount(totalRaw)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", f.TotalPrice, err)
		}
		if unitRaw != "" && total.Sub(computed).Abs().GreaterThan(invoiceTolerance) {
			warnings = append(warnings, fmt.Sprintf("%s: total %s does not match %s x %s = %s",
				name, formatAmount(total), qty.String(), formatAmount(unitPrice), formatAmount(computed)))
		}
	}

	vendor := f.Vendor
	if v := row.Get(f.VendorColumn); v != "" {
		vendor = v
	}
	code := row.Get(f.ProductCode)

	return &models.InvoiceItem{
		Date:        date,
		Vendor:      vendor,
		ProductName: name,
		ProductCode: code,
		Quantity:    qty,
		Unit:        row.Get(f.Unit),
		UnitPrice:   unitPrice,
		TotalPrice:  total,
		Fingerprint: InvoiceFingerprint(date, code, name, total),
	}, warnings, nil
}

func rowDate(f SourceFormat, row Row, opts NormalizeOptions) (string, error) {
	if len(f.Date) == 0 {
		if opts.FallbackDate == "" {
			return "", ErrEmptyDate
		}
		return ParseDate(opts.FallbackDate)
	}
	date, err := ParseDate(row.Get(f.Date...))
	if err != nil {
		return "", fmt.Errorf("%s: %w", f.Date[0], err)
	}
	return date, nil
}

// EntryFingerprint is the duplicate key of an imported ledger or card row.
func EntryFingerprint(date, description string, income, expense decimal.Decimal) string {
	return strings.Join([]string{date, strings.TrimSpace(description), formatAmount(income), formatAmount(expense)}, "_")
}

// InvoiceFingerprint is the duplicate key of an imported invoice line.
func InvoiceFingerprint(date, code, name string, total decimal.Decimal) string {
	return strings.Join([]string{date, code, name, formatAmount(total)}, "_")
}
