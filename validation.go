package btcfolio

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// Sentinel errors, to be matched with errors.Is.
var (
	ErrValidation            = errors.New("invalid transaction")
	ErrInvalidQuote          = errors.New("invalid quote")
	ErrMalformedPriceHistory = errors.New("malformed price history")
)

// FieldError reports a single offending field of a transaction candidate.
type FieldError struct {
	Field  string // "date", "type", "amount" or "price"
	Value  string // the raw value as received
	Reason string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Field, e.Value, e.Reason)
}

// ValidationError is returned when a candidate transaction is rejected. It
// lists every offending field, not only the first one.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Error())
	}
	return "invalid transaction: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Has reports whether field is among the offending fields.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// add records a field failure.
func (e *ValidationError) add(field, value, reason string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Value: value, Reason: reason})
}

// orNil returns e if any field failed, nil otherwise.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// InvalidQuoteError is returned when a current price is not a finite
// positive number.
type InvalidQuoteError struct {
	Price float64
}

func (e *InvalidQuoteError) Error() string {
	return fmt.Sprintf("invalid quote: price %v is not a finite positive number", e.Price)
}

func (e *InvalidQuoteError) Is(target error) bool { return target == ErrInvalidQuote }

// MalformedPriceHistoryError reports a price point that was skipped while
// reconstructing a historical series.
type MalformedPriceHistoryError struct {
	Index int // position in the input history
	Time  time.Time
	Price float64
}

func (e *MalformedPriceHistoryError) Error() string {
	return fmt.Sprintf("malformed price point #%d (%v, %v) skipped", e.Index, e.Time, e.Price)
}

func (e *MalformedPriceHistoryError) Is(target error) bool { return target == ErrMalformedPriceHistory }

// isFinitePositive reports whether v is a usable price or amount.
func isFinitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}

// ValidateQuote returns an *InvalidQuoteError unless price is finite and positive.
func ValidateQuote(price float64) error {
	if !isFinitePositive(price) {
		return &InvalidQuoteError{Price: price}
	}
	return nil
}
