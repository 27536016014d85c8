package metrics

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Each typed error below unwraps to one of them.
var (
	ErrDecode         = errors.New("decode error")
	ErrMissingField   = errors.New("missing field")
	ErrDivisionByZero = errors.New("division by zero")
	ErrLengthMismatch = errors.New("length mismatch")
	ErrEmptyInput     = errors.New("empty input")
	ErrInvalidWindow  = errors.New("invalid window length")
)

// Pipeline stages, used to tag per-symbol failures.
const (
	StageFetch     = "fetch"
	StageWindow    = "window"
	StageDelta     = "delta"
	StageAggregate = "aggregate"
	StageMomentum  = "momentum"
	StageRank      = "rank"
)

// MissingFieldError is returned when a raw entry lacks a required field.
type MissingFieldError struct {
	Date  string
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: field %q absent", e.Date, e.Field)
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// DecodeError is returned when a present field is not a finite, non-negative decimal.
type DecodeError struct {
	Date  string
	Field string
	Value string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: cannot decode %s %q: %v", e.Date, e.Field, e.Value, e.Err)
	}
	return fmt.Sprintf("%s: cannot decode %s %q", e.Date, e.Field, e.Value)
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrDecode}
	}
	return []error{ErrDecode, e.Err}
}

// DivisionByZeroError is returned when a daily return would divide by a zero price.
type DivisionByZeroError struct {
	Date  string
	Index int
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("zero closing price on %s (index %d) cannot be a return denominator", e.Date, e.Index)
}

func (e *DivisionByZeroError) Unwrap() error { return ErrDivisionByZero }

// LengthMismatchError is returned when columns supplied independently differ in length.
type LengthMismatchError struct {
	Dates   int
	Prices  int
	Volumes int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("column lengths differ: dates=%d prices=%d volumes=%d", e.Dates, e.Prices, e.Volumes)
}

func (e *LengthMismatchError) Unwrap() error { return ErrLengthMismatch }

// StageError ties a failure to the symbol and pipeline stage it happened in.
type StageError struct {
	Symbol string
	Stage  string
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %s stage: %v", e.Symbol, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// StageOf reports the stage recorded in err, or "" when err carries none.
func StageOf(err error) string {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return ""
}
