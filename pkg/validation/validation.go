// Package validation holds the side-effect free checks that gate every ledger write.
package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pocketledger/pocketledger/internal/utils"
	"github.com/shopspring/decimal"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrEmpty         = fmt.Errorf("%w: value is required", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: date must be yyyy-mm-dd", ErrValidation)
	ErrInvalidAmount = fmt.Errorf("%w: amount must be a non-negative number", ErrValidation)
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// FieldError ties a validation failure to the input field that caused it.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func NewFieldError(field string, err error) *FieldError {
	return &FieldError{Field: field, Err: err}
}

func IsNonEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// IsValidDate checks the exact yyyy-mm-dd shape only. 2024-02-30 passes.
func IsValidDate(s string) bool {
	return datePattern.MatchString(s)
}

// ValidateCalendarDate checks the shape and that the date exists, so 2024-13-01 and 2024-02-30 fail.
func ValidateCalendarDate(s string) error {
	if !IsValidDate(s) {
		return ErrInvalidDate
	}
	if _, err := time.Parse(utils.DateLayout, s); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// ParseAmount coerces user input to a non-negative decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if amount.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}

// RequireNonEmpty returns a FieldError for the first empty field, in argument order.
func RequireNonEmpty(fields ...Field) error {
	for _, f := range fields {
		if !IsNonEmpty(f.Value) {
			return NewFieldError(f.Name, ErrEmpty)
		}
	}
	return nil
}

type Field struct {
	Name  string
	Value string
}
