package memory

import (
	"context"
	"sync"

	"waterlog/internal/core"
)

// Store keeps the intake log in process memory. Nothing survives a restart.
type Store struct {
	mu    sync.Mutex
	items []core.Intake
}

func New(seed ...core.Intake) *Store {
	return &Store{items: append([]core.Intake(nil), seed...)}
}

func (s *Store) Initialize(_ context.Context) error { return nil }

// Append stores the entry after checking the log invariants.
func (s *Store) Append(_ context.Context, in core.Intake) error {
	if err := in.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, in)
	return nil
}

// ReadAll returns a copy of the log.
func (s *Store) ReadAll(_ context.Context) ([]core.Intake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Intake(nil), s.items...), nil
}

func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return nil
}
