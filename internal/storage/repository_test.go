package storage

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterlog/internal/core"
)

func newRepo(t *testing.T) (*SQLiteRepository, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "waterlog.db")
	r, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.Initialize(context.Background()))
	return r, path
}

func TestSQLiteAppendAndReadAll(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)
	want := []core.Intake{
		{Date: core.NewDate(2025, 5, 4), Amount: 500},
		{Date: core.NewDate(2025, 5, 1), Amount: 250},
		{Date: core.NewDate(2025, 5, 4), Amount: 700},
	}
	for _, in := range want {
		require.NoError(t, r.Append(ctx, in))
	}

	got, err := r.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSQLiteInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	r, path := newRepo(t)
	require.NoError(t, r.Append(ctx, core.Intake{Date: core.NewDate(2025, 1, 1), Amount: 300}))

	require.NoError(t, r.Initialize(ctx))

	// a second process opening the same file sees the data too
	r2, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer r2.Close()
	require.NoError(t, r2.Initialize(ctx))

	got, err := r2.ReadAll(ctx)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteClear(t *testing.T) {
	ctx := context.Background()
	r, _ := newRepo(t)
	require.NoError(t, r.Append(ctx, core.Intake{Date: core.NewDate(2025, 1, 1), Amount: 300}))
	require.NoError(t, r.Append(ctx, core.Intake{Date: core.NewDate(2025, 1, 2), Amount: 300}))

	require.NoError(t, r.Clear(ctx))

	got, err := r.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSQLiteRejectsNonPositiveAmount(t *testing.T) {
	r, _ := newRepo(t)
	err := r.Append(context.Background(), core.Intake{Date: core.NewDate(2025, 1, 1), Amount: -5})
	var de *core.DataError
	assert.True(t, errors.As(err, &de), "got %v", err)
}

func TestSQLiteMalformedDateIsDataError(t *testing.T) {
	ctx := context.Background()
	_, path := newRepo(t)

	// write a bad row behind the repository's back
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO intakes (date, amount) VALUES ('not-a-date', 100)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	r, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadAll(ctx)
	var de *core.DataError
	assert.True(t, errors.As(err, &de), "got %v", err)
}

func TestSQLiteReadBeforeInitializeIsPersistenceError(t *testing.T) {
	r, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "fresh.db"))
	require.NoError(t, err)
	defer r.Close()

	_, err = r.ReadAll(context.Background())
	var pe *core.PersistenceError
	assert.True(t, errors.As(err, &pe), "got %v", err)
}
