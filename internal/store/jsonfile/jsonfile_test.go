package jsonfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"waterlog/internal/core"
)

func newStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "water_log.json")
	s := New(path)
	require.NoError(t, s.Initialize(context.Background()))
	return s, path
}

func TestInitializeCreatesEmptyDocument(t *testing.T) {
	_, path := newStore(t)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"history": []}`, string(data))
}

func TestInitializeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	d := core.NewDate(2025, 5, 4)
	require.NoError(t, s.Append(ctx, core.Intake{Date: d, Amount: 500}))

	require.NoError(t, s.Initialize(ctx))
	require.NoError(t, s.Initialize(ctx))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []core.Intake{{Date: d, Amount: 500}}, got)
}

func TestInitializeLeavesCorruptFileAlone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water_log.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	require.NoError(t, New(path).Initialize(context.Background()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(data))
}

func TestAppendPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	want := []core.Intake{
		{Date: core.NewDate(2025, 5, 4), Amount: 500},
		{Date: core.NewDate(2025, 5, 3), Amount: 250},
		{Date: core.NewDate(2025, 5, 4), Amount: 700},
	}
	for _, in := range want {
		require.NoError(t, s.Append(ctx, in))
	}

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"history":[
		{"date":"2025-05-04","amount":500},
		{"date":"2025-05-03","amount":250},
		{"date":"2025-05-04","amount":700}]}`, string(data))

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestAppendOnCorruptFileIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{"history": [`), 0o644))

	err := s.Append(ctx, core.Intake{Date: core.NewDate(2025, 1, 1), Amount: 100})
	var pe *core.PersistenceError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "append", pe.Op)

	// the corrupt file was not overwritten
	data, _ := os.ReadFile(path)
	assert.Equal(t, `{"history": [`, string(data))
}

func TestTrailingDataIsPersistenceError(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "water_log.json")
	body := `{"history":[{"date":"2025-01-01","amount":5}]} {"history":[] GARBAGE`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	s := New(path)

	_, err := s.ReadAll(ctx)
	var pe *core.PersistenceError
	require.True(t, errors.As(err, &pe), "got %v", err)
	assert.Equal(t, "read", pe.Op)

	err = s.Append(ctx, core.Intake{Date: core.NewDate(2025, 1, 2), Amount: 100})
	require.True(t, errors.As(err, &pe), "got %v", err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, body, string(data))
}

func TestReadAllMissingFileIsPersistenceError(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "absent.json"))
	_, err := s.ReadAll(context.Background())
	var pe *core.PersistenceError
	assert.True(t, errors.As(err, &pe), "got %v", err)
}

func TestReadAllMalformedRecordIsDataError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"bad date", `{"history":[{"date":"2025-01-01","amount":1},{"date":"01/02/2025","amount":5}]}`},
		{"impossible date", `{"history":[{"date":"2025-02-30","amount":5}]}`},
		{"non-positive amount", `{"history":[{"date":"2025-01-01","amount":0}]}`},
		{"oversized amount", `{"history":[{"date":"2025-01-01","amount":9223372036854775807}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "water_log.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.body), 0o644))

			_, err := New(path).ReadAll(context.Background())
			var de *core.DataError
			assert.True(t, errors.As(err, &de), "got %v", err)
		})
	}
}

func TestClearEmptiesLog(t *testing.T) {
	ctx := context.Background()
	s, path := newStore(t)
	require.NoError(t, s.Append(ctx, core.Intake{Date: core.NewDate(2025, 1, 1), Amount: 300}))

	require.NoError(t, s.Clear(ctx))

	got, err := s.ReadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
	data, _ := os.ReadFile(path)
	assert.JSONEq(t, `{"history": []}`, string(data))
}

func TestNullHistoryReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "water_log.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"history": null}`), 0o644))

	got, err := New(path).ReadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
