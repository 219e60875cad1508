package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"waterlog/internal/core"

	_ "modernc.org/sqlite"
)

const (
	insertIntakeSQL  = `INSERT INTO intakes (date, amount) VALUES (?, ?)`
	selectIntakesSQL = `SELECT date, amount FROM intakes ORDER BY id`
	deleteIntakesSQL = `DELETE FROM intakes`
)

// busyTimeoutMillis bounds how long a writer waits on a lock held by another
// process before SQLite reports SQLITE_BUSY.
const busyTimeoutMillis = 5000

type SQLiteRepository struct {
	db   *sql.DB
	path string
	dsn  string
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", dbPath, busyTimeoutMillis)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &SQLiteRepository{db: db, path: dbPath, dsn: dsn}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Initialize brings the schema up to date. Existing rows are never touched.
func (r *SQLiteRepository) Initialize(ctx context.Context) error {
	if err := RunMigrations(r.dsn); err != nil {
		return &core.PersistenceError{Op: "initialize", Path: r.path, Err: err}
	}
	slog.DebugContext(ctx, "SQLite schema ready", "path", r.path)
	return nil
}

// Append inserts one row; the single INSERT is its own transaction.
func (r *SQLiteRepository) Append(ctx context.Context, in core.Intake) error {
	if err := in.Validate(); err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, insertIntakeSQL, in.Date.String(), in.Amount)
	if err != nil {
		return &core.PersistenceError{Op: "append", Path: r.path, Err: fmt.Errorf("insert intake: %w", err)}
	}

	id, _ := res.LastInsertId()
	slog.DebugContext(ctx, "Intake saved to SQLite",
		"id", id,
		"date", in.Date.String(),
		"amount_ml", in.Amount)
	return nil
}

// ReadAll returns every row in insertion order.
func (r *SQLiteRepository) ReadAll(ctx context.Context) ([]core.Intake, error) {
	rows, err := r.db.QueryContext(ctx, selectIntakesSQL)
	if err != nil {
		return nil, &core.PersistenceError{Op: "read", Path: r.path, Err: fmt.Errorf("select intakes: %w", err)}
	}
	defer rows.Close()

	var out []core.Intake
	for rows.Next() {
		var (
			date   string
			amount int
		)
		if err := rows.Scan(&date, &amount); err != nil {
			return nil, &core.PersistenceError{Op: "read", Path: r.path, Err: fmt.Errorf("scan intake: %w", err)}
		}
		d, err := core.ParseDate(date)
		if err != nil {
			return nil, err
		}
		in := core.Intake{Date: d, Amount: amount}
		if err := in.Validate(); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, &core.PersistenceError{Op: "read", Path: r.path, Err: err}
	}

	return out, nil
}

// Clear deletes every row inside one transaction.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &core.PersistenceError{Op: "clear", Path: r.path, Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, deleteIntakesSQL)
	if err != nil {
		return &core.PersistenceError{Op: "clear", Path: r.path, Err: fmt.Errorf("delete intakes: %w", err)}
	}
	if err := tx.Commit(); err != nil {
		return &core.PersistenceError{Op: "clear", Path: r.path, Err: fmt.Errorf("commit: %w", err)}
	}

	n, _ := res.RowsAffected()
	slog.InfoContext(ctx, "Intake log cleared", "path", r.path, "deleted", n)
	return nil
}
