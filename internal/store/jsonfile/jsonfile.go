// Package jsonfile stores the intake log as a single JSON document:
//
//	{"history": [{"date": "2025-01-01", "amount": 500}, ...]}
//
// Every mutation rewrites the whole document through a temp file in the same
// directory that is fsynced and renamed over the target, so a crash leaves
// either the old or the new document on disk, never a torn one.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"waterlog/internal/core"
)

type document struct {
	History []record `json:"history"`
}

type record struct {
	Date   string `json:"date"`
	Amount int    `json:"amount"`
}

// Store is the file-backed intake log. It assumes a single writer.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string { return s.path }

// Initialize creates an empty document if the file does not exist yet.
// An existing file is left untouched, whatever it contains.
func (s *Store) Initialize(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &core.PersistenceError{Op: "initialize", Path: s.path, Err: fmt.Errorf("create directory: %w", err)}
	}

	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return &core.PersistenceError{Op: "initialize", Path: s.path, Err: err}
	}

	if err := s.write(document{History: []record{}}); err != nil {
		return &core.PersistenceError{Op: "initialize", Path: s.path, Err: err}
	}
	slog.InfoContext(ctx, "Created intake log", "path", s.path)
	return nil
}

// Append adds one entry. The existing document must parse; records already
// on disk are carried over verbatim.
func (s *Store) Append(ctx context.Context, in core.Intake) error {
	if err := in.Validate(); err != nil {
		return err
	}

	doc, err := s.load()
	if err != nil {
		return &core.PersistenceError{Op: "append", Path: s.path, Err: err}
	}
	doc.History = append(doc.History, record{Date: in.Date.String(), Amount: in.Amount})

	if err := s.write(doc); err != nil {
		return &core.PersistenceError{Op: "append", Path: s.path, Err: err}
	}

	slog.DebugContext(ctx, "Intake appended to file",
		"path", s.path,
		"date", in.Date.String(),
		"amount_ml", in.Amount,
		"entries", len(doc.History))
	return nil
}

// ReadAll decodes every record in file order. A record with an invalid date
// or amount fails the whole read with *core.DataError.
func (s *Store) ReadAll(_ context.Context) ([]core.Intake, error) {
	doc, err := s.load()
	if err != nil {
		return nil, &core.PersistenceError{Op: "read", Path: s.path, Err: err}
	}

	out := make([]core.Intake, 0, len(doc.History))
	for _, r := range doc.History {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, err
		}
		in := core.Intake{Date: d, Amount: r.Amount}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// Clear replaces the document with an empty history. No archive is kept.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.write(document{History: []record{}}); err != nil {
		return &core.PersistenceError{Op: "clear", Path: s.path, Err: err}
	}
	slog.InfoContext(ctx, "Intake log cleared", "path", s.path)
	return nil
}

func (s *Store) load() (document, error) {
	var doc document
	data, err := os.ReadFile(s.path)
	if err != nil {
		return doc, fmt.Errorf("read file: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode json: %w", err)
	}
	return doc, nil
}

func (s *Store) write(doc document) error {
	if doc.History == nil {
		doc.History = []record{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	committed = true
	return nil
}
