package core

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNotANumber = errors.New("not a number")

// ParseAmount converts user input to a positive number of milliliters.
//
// Leading and trailing whitespace is ignored and an optional "ml" suffix is
// accepted ("250", " 250ml ", "250 ml"). Anything else, including zero,
// negative values and amounts above MaxAmount, yields a *ValidationError.
func ParseAmount(s string) (int, error) {
	raw := s
	s = strings.TrimSpace(strings.ToLower(s))
	s = strings.TrimSpace(strings.TrimSuffix(s, "ml"))
	if s == "" {
		return 0, &ValidationError{Input: raw, Reason: ErrNotANumber}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ValidationError{Input: raw, Reason: ErrNotANumber}
	}
	if n <= 0 {
		return 0, &ValidationError{Input: raw, Reason: ErrInvalidAmount}
	}
	if n > MaxAmount {
		return 0, &ValidationError{Input: raw, Reason: ErrAmountTooLarge}
	}
	return n, nil
}
