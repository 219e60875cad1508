package memory

import (
	"context"
	"errors"
	"testing"

	"waterlog/internal/core"
)

func TestMemoryStoreAppendAndReadAll(t *testing.T) {
	ctx := context.Background()
	s := New()
	d := core.NewDate(2025, 1, 1)

	for _, ml := range []int{500, 700} {
		if err := s.Append(ctx, core.Intake{Date: d, Amount: ml}); err != nil {
			t.Fatalf("append %d: %v", ml, err)
		}
	}

	got, err := s.ReadAll(ctx)
	if err != nil || len(got) != 2 || got[0].Amount != 500 || got[1].Amount != 700 {
		t.Fatalf("unexpected read: %v err=%v", got, err)
	}

	// Mutating the snapshot must not leak into the store.
	got[0].Amount = 1
	again, _ := s.ReadAll(ctx)
	if again[0].Amount != 500 {
		t.Fatalf("snapshot aliased store: %v", again)
	}
}

func TestMemoryStoreRejectsInvalid(t *testing.T) {
	s := New()
	err := s.Append(context.Background(), core.Intake{Date: core.NewDate(2025, 1, 1), Amount: -5})
	var de *core.DataError
	if !errors.As(err, &de) {
		t.Fatalf("expected DataError, got %v", err)
	}
}

func TestMemoryStoreClearAndInitialize(t *testing.T) {
	ctx := context.Background()
	s := New(core.Intake{Date: core.NewDate(2025, 1, 1), Amount: 300})

	if err := s.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.ReadAll(ctx); len(got) != 1 {
		t.Fatalf("initialize changed seeded log: %v", got)
	}
	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if got, _ := s.ReadAll(ctx); len(got) != 0 {
		t.Fatalf("expected empty log after clear, got %v", got)
	}
}
