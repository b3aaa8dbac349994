package ledger

import (
	"errors"
	"fmt"
)

// ValidationError rejects a single operation: bad field name, bad amount, bad date.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when an update or delete targets an unknown key.
type NotFoundError struct {
	Kind RecordKind
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// ImportRowError describes one rejected row of a batch import. Row is 1-based
// and counts data rows only (the header is not row 1).
type ImportRowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e ImportRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err carries a *ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsNotFound reports whether err carries a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
