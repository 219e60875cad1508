package core

import (
	"fmt"
	"strconv"
)

// ValidationError reports bad user input. It is always recoverable.
type ValidationError struct {
	Input  string
	Reason error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid input %q: %v", e.Input, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Reason }

// PersistenceError reports a backing store that cannot be read or written.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// DataError reports a stored record that is present but malformed.
type DataError struct {
	Field string
	Value string
	Err   error
}

func (e *DataError) Error() string {
	return fmt.Sprintf("malformed %s %q: %v", e.Field, e.Value, e.Err)
}

func (e *DataError) Unwrap() error { return e.Err }

func itoa(n int) string { return strconv.Itoa(n) }
