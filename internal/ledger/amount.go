package ledger

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

var (
	ErrEmptyAmount = errors.New("amount is empty")
	ErrBadAmount   = errors.New("amount is not a number")
	ErrEmptyDate   = errors.New("date is empty")
	ErrBadDate     = errors.New("unrecognized date")
)

// dateLayouts are tried in order. Bank exports use US month-first dates.
var dateLayouts = []string{
	DateLayout,
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"01-02-2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseAmount reads a currency string as exported by banks and card issuers:
// "$1,234.50", "-12.00", "(12.00)" for negatives, surrounding spaces.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmptyAmount
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = strings.TrimPrefix(s, "+")
	if s == "" {
		return decimal.Zero, ErrBadAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrBadAmount
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}

// ParseOptionalAmount is ParseAmount with an empty cell meaning zero.
func ParseOptionalAmount(s string) (decimal.Decimal, error) {
	if strings.TrimSpace(s) == "" {
		return decimal.Zero, nil
	}
	return ParseAmount(s)
}

// CoerceAmount converts a decoded JSON value into an amount.
// Blank strings and null clear the field to zero.
func CoerceAmount(v any) (decimal.Decimal, error) {
	switch val := v.(type) {
	case nil:
		return decimal.Zero, nil
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return decimal.Zero, ErrBadAmount
		}
		return decimal.NewFromFloat(val), nil
	case float32:
		return CoerceAmount(float64(val))
	case int:
		return decimal.NewFromInt(int64(val)), nil
	case int64:
		return decimal.NewFromInt(val), nil
	case json.Number:
		return ParseAmount(val.String())
	case decimal.Decimal:
		return val, nil
	case string:
		return ParseOptionalAmount(val)
	default:
		return decimal.Zero, ErrBadAmount
	}
}

// ParseDate accepts the layouts seen in bank and card exports and returns YYYY-MM-DD.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyDate
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(DateLayout), nil
		}
	}
	return "", ErrBadDate
}

// MonthRange returns the half-open [first day, first day of next month) bounds
// of a YYYY-MM month as date strings.
func MonthRange(month string) (start, end string, err error) {
	t, err := time.Parse(MonthLayout, strings.TrimSpace(month))
	if err != nil {
		return "", "", invalid("month", "must be YYYY-MM")
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.Format(DateLayout), first.AddDate(0, 1, 0).Format(DateLayout), nil
}

func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func stringValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return ""
	}
}
