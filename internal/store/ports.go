// Package store defines the storage ports for the intake log and the
// backends that implement them.
package store

import (
	"context"

	"waterlog/internal/core"
)

// Ports for the intake log. Storage exclusively owns the log; everything
// else reads snapshots through Reader.
type (
	Initializer interface {
		// Initialize creates the backing store if absent. It never truncates.
		Initialize(ctx context.Context) error
	}

	Appender interface {
		Append(ctx context.Context, in core.Intake) error
	}

	// Reader returns every stored entry in insertion order.
	Reader interface {
		ReadAll(ctx context.Context) ([]core.Intake, error)
	}

	// Clearer atomically replaces the log with an empty one.
	Clearer interface {
		Clear(ctx context.Context) error
	}

	Store interface {
		Initializer
		Appender
		Reader
		Clearer
	}
)
