package core

import (
	"errors"
	"time"
)

// DateLayout is the persisted form of a calendar day.
const DateLayout = "2006-01-02"

type (
	// Date is a calendar day with no time component, normalized to UTC midnight.
	Date struct {
		time.Time
	}

	// Intake is one logged water intake event.
	Intake struct {
		Date   Date
		Amount int // milliliters
	}
)

// MaxAmount is the largest single intake accepted, in ml. It keeps daily and
// weekly sums far from integer overflow.
const MaxAmount = 10000

var (
	ErrZeroDate       = errors.New("date cannot be zero")
	ErrInvalidAmount  = errors.New("amount must be a positive whole number of ml")
	ErrAmountTooLarge = errors.New("amount exceeds 10000 ml")
)

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// ParseDate parses a "YYYY-MM-DD" string. Failures are reported as *DataError.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &DataError{Field: "date", Value: s, Err: err}
	}
	return DateOf(t), nil
}

// String formats the date as "YYYY-MM-DD".
func (d Date) String() string {
	return d.Format(DateLayout)
}

// AddDays returns the date n calendar days later (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// Equal reports whether both values name the same day.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

func (d Date) Before(o Date) bool { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool  { return d.Time.After(o.Time) }

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// Validate checks the stored-record invariants. Violations are *DataError.
func (i Intake) Validate() error {
	if err := i.Date.Validate(); err != nil {
		return &DataError{Field: "date", Value: "", Err: err}
	}
	if i.Amount <= 0 {
		return &DataError{Field: "amount", Value: itoa(i.Amount), Err: ErrInvalidAmount}
	}
	if i.Amount > MaxAmount {
		return &DataError{Field: "amount", Value: itoa(i.Amount), Err: ErrAmountTooLarge}
	}
	return nil
}
