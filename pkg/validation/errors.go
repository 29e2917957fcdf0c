package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is the sentinel wrapped by every InputError.
var ErrInvalidInput = errors.New("invalid input")

// InputError rejects a calculator argument at the API boundary.
type InputError struct {
	Field    string `json:"field"`
	Value    any    `json:"value,omitempty"`
	Expected string `json:"expected"`
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input: %s = %v (expected %s)", e.Field, e.Value, e.Expected)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

// Invalid builds an InputError for field.
func Invalid(field string, value any, expected string) error {
	return &InputError{Field: field, Value: value, Expected: expected}
}

// RequirePositive rejects zero, negative, NaN and infinite values.
func RequirePositive(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return Invalid(field, v, "> 0")
	}
	return nil
}

// RequireNonNegative rejects negative, NaN and infinite values.
func RequireNonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Invalid(field, v, ">= 0")
	}
	return nil
}

// RequireCount rejects counts below one.
func RequireCount(field string, n int) error {
	if n < 1 {
		return Invalid(field, n, ">= 1")
	}
	return nil
}

// FirstError returns the first non-nil error.
func FirstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
