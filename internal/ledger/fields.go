package ledger

import (
	"fmt"
	"sort"
	"strings"
)

// RecordKind names a table of the ledger.
type RecordKind string

const (
	RecordTransaction RecordKind = "transaction"
	RecordCreditCard  RecordKind = "credit_card"
	RecordCash        RecordKind = "cash"
	RecordSales       RecordKind = "sales"
	RecordInvoice     RecordKind = "invoice"
)

// FieldKind decides how a client value is coerced before it is stored.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldDate
	FieldAmount       // never negative: income, expense
	FieldSignedAmount // may be negative: cash_amount, balances, sales channels
)

// SalesChannels are the SalesRecord amount columns that sum into total.
var SalesChannels = []string{"cash", "debit", "credit", "svc", "tips", "tax", "cash_tips", "doordash", "stripe"}

var ledgerEntryFields = map[string]FieldKind{
	"date":           FieldDate,
	"category":       FieldText,
	"payee":          FieldText,
	"payee_note":     FieldText,
	"income":         FieldAmount,
	"expense":        FieldAmount,
	"cash_amount":    FieldSignedAmount,
	"bank_balance":   FieldSignedAmount,
	"description":    FieldText,
	"account_source": FieldText,
}

var writableFields = map[RecordKind]map[string]FieldKind{
	RecordTransaction: ledgerEntryFields,
	RecordCreditCard:  ledgerEntryFields,
	RecordCash: {
		"date":        FieldDate,
		"category":    FieldText,
		"payee":       FieldText,
		"income":      FieldAmount,
		"expense":     FieldAmount,
		"balance":     FieldSignedAmount,
		"description": FieldText,
	},
	RecordSales: salesFields(),
}

func salesFields() map[string]FieldKind {
	m := map[string]FieldKind{"memo": FieldText}
	for _, ch := range SalesChannels {
		m[ch] = FieldSignedAmount
	}
	return m
}

// WritableFields lists the client-writable fields of a record kind, sorted.
func WritableFields(kind RecordKind) []string {
	fields := writableFields[kind]
	out := make([]string, 0, len(fields))
	for name := range fields {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// CoerceField validates a client value for one field and returns what gets stored.
func CoerceField(kind RecordKind, field string, value any) (any, error) {
	fields, ok := writableFields[kind]
	if !ok {
		return nil, invalid("", "%s records are read-only", kind)
	}
	field = strings.TrimSpace(field)
	fk, ok := fields[field]
	if !ok {
		return nil, invalid(field, "unknown or read-only field for %s (writable: %s)", kind, strings.Join(WritableFields(kind), ", "))
	}

	switch fk {
	case FieldText:
		switch v := value.(type) {
		case map[string]any, []any:
			return nil, invalid(field, "must be text")
		default:
			return stringValue(v), nil
		}
	case FieldDate:
		s, ok := value.(string)
		if !ok {
			return nil, invalid(field, "must be a YYYY-MM-DD string")
		}
		d, err := ParseDate(s)
		if err != nil {
			return nil, invalid(field, "%v", err)
		}
		return d, nil
	case FieldAmount, FieldSignedAmount:
		d, err := CoerceAmount(value)
		if err != nil {
			return nil, invalid(field, "must be a number")
		}
		if fk == FieldAmount && d.IsNegative() {
			return nil, invalid(field, "must not be negative")
		}
		return d, nil
	default:
		return nil, fmt.Errorf("field %s: unhandled kind %d", field, fk)
	}
}

// coerceFields validates a whole partial update. Nothing is applied if any field fails.
func coerceFields(kind RecordKind, values map[string]any) (map[string]any, error) {
	if len(values) == 0 {
		return nil, invalid("", "no fields to update")
	}
	out := make(map[string]any, len(values))
	var problems []string
	var first error
	for field, v := range values {
		coerced, err := CoerceField(kind, field, v)
		if err != nil {
			if first == nil {
				first = err
			}
			problems = append(problems, err.Error())
			continue
		}
		out[strings.TrimSpace(field)] = coerced
	}
	switch len(problems) {
	case 0:
		return out, nil
	case 1:
		return nil, first
	default:
		sort.Strings(problems)
		return nil, &ValidationError{Reason: strings.Join(problems, "; ")}
	}
}
