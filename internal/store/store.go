// Package store persists tasks and settings in an embedded SQLite database.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/nibzard/taskflow/internal/todo"
)

//go:embed migrations/001_initial_schema.sql
var migrationV1 string

//go:embed migrations/002_settings.sql
var migrationV2 string

//go:embed migrations/003_created_at_millis.sql
var migrationV3 string

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store is closed")

// Store implements todo.Gateway on top of SQLite.
type Store struct {
	path string
	db   *sql.DB
}

var _ todo.Gateway = (*Store)(nil)

// Open opens (creating if needed) the database at path and applies pending
// migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("database path is empty")
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Serialize access; writes from one process never overlap.
	db.SetMaxOpenConns(1)

	s := &Store{path: path, db: db}
	if err := s.migrate(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("running migrations: %w (close error: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) migrate(ctx context.Context) error {
	version, err := s.schemaVersion(ctx)
	if err != nil {
		return err
	}

	migrations := []string{migrationV1, migrationV2, migrationV3}
	for i, m := range migrations {
		if version >= i+1 {
			continue
		}
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("applying migration v%d: %w", i+1, err)
		}
	}
	return nil
}

// schemaVersion returns the latest applied migration, or 0 for a new
// database.
func (s *Store) schemaVersion(ctx context.Context) (int, error) {
	var tables int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'").Scan(&tables)
	if err != nil {
		return 0, fmt.Errorf("checking schema version: %w", err)
	}
	if tables == 0 {
		return 0, nil
	}

	var version int
	err = s.db.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, ErrClosed
	}
	return s.db, nil
}

// All returns every task, newest first.
func (s *Store) All(ctx context.Context) ([]todo.Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, text, completed, created_at FROM todos ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("querying todos: %w", err)
	}
	defer rows.Close()

	tasks := make([]todo.Task, 0)
	for rows.Next() {
		var (
			t         todo.Task
			completed int
			created   int64
		)
		if err := rows.Scan(&t.ID, &t.Text, &completed, &created); err != nil {
			return nil, fmt.Errorf("scanning todo: %w", err)
		}
		t.Completed = completed != 0
		t.CreatedAt = time.UnixMilli(created).UTC()
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating todos: %w", err)
	}
	return tasks, nil
}

// Add inserts a new task. Adding an existing id fails.
func (s *Store) Add(ctx context.Context, task todo.Task) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		"INSERT INTO todos (id, text, completed, created_at) VALUES (?, ?, ?, ?)",
		task.ID, task.Text, boolToInt(task.Completed), task.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("inserting todo %d: %w", task.ID, err)
	}
	return nil
}

// Update writes task, inserting it when the id is unknown.
func (s *Store) Update(ctx context.Context, task todo.Task) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO todos (id, text, completed, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			text = excluded.text,
			completed = excluded.completed,
			created_at = excluded.created_at`,
		task.ID, task.Text, boolToInt(task.Completed), task.CreatedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("updating todo %d: %w", task.ID, err)
	}
	return nil
}

// Delete removes the task with id. Unknown ids are not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}

	if _, err := db.ExecContext(ctx, "DELETE FROM todos WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting todo %d: %w", id, err)
	}
	return nil
}

// DeleteBatch removes all ids in a single transaction.
func (s *Store) DeleteBatch(ctx context.Context, ids []int64) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "DELETE FROM todos WHERE id = ?")
	if err != nil {
		return fmt.Errorf("preparing delete: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id); err != nil {
			return fmt.Errorf("deleting todo %d: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch delete: %w", err)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
