package util

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/timlee789/account/internal/ledger"
)

// ValidateDate accepts any date layout the importer understands.
func ValidateDate(dateStr string) error {
	if strings.TrimSpace(dateStr) == "" {
		return fmt.Errorf("date is empty")
	}
	if _, err := ledger.ParseDate(dateStr); err != nil {
		return fmt.Errorf("invalid date %q: %w", dateStr, err)
	}
	return nil
}

// ValidateMonth checks a YYYY-MM month.
func ValidateMonth(month string) error {
	if month == "" {
		return fmt.Errorf("month is empty")
	}
	if _, err := time.Parse(ledger.MonthLayout, month); err != nil {
		return fmt.Errorf("invalid month format: %w", err)
	}
	return nil
}

// ValidateField checks a field name sent by the tables before it reaches the store.
func ValidateField(field string) error {
	field = strings.TrimSpace(field)
	if field == "" {
		return fmt.Errorf("field is empty")
	}
	if len(field) > 32 {
		return fmt.Errorf("field too long, max 32 characters")
	}
	return nil
}

// RegisterValidators adds the isodate and yearmonth binding tags.
func RegisterValidators(v *validator.Validate) error {
	if err := v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		return ValidateDate(fl.Field().String()) == nil
	}); err != nil {
		return err
	}
	return v.RegisterValidation("yearmonth", func(fl validator.FieldLevel) bool {
		return ValidateMonth(fl.Field().String()) == nil
	})
}
