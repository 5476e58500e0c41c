package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	types "distr-calc/internal/service/types"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists history records to a SQLite database file.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store requires a path")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS history (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			expression TEXT NOT NULL,
			status TEXT NOT NULL,
			display TEXT NOT NULL DEFAULT '',
			error TEXT NOT NULL DEFAULT '',
			kind TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, rec types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO history (id, expression, status, display, error, kind, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			expression = excluded.expression,
			status = excluded.status,
			display = excluded.display,
			error = excluded.error,
			kind = excluded.kind
	`, rec.ID, rec.Expression, rec.Status, rec.Display, rec.Error, rec.Kind,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, id string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Record{}, ErrClosed
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, expression, status, display, error, kind, created_at
		FROM history WHERE id = ?
	`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Record{}, ErrNotFound
	}
	if err != nil {
		return types.Record{}, fmt.Errorf("load record: %w", err)
	}
	return rec, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, expression, status, display, error, kind, created_at
		FROM history ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

// Clear implements Store.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM history"); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (types.Record, error) {
	var rec types.Record
	var createdAt string
	if err := row.Scan(&rec.ID, &rec.Expression, &rec.Status, &rec.Display, &rec.Error, &rec.Kind, &createdAt); err != nil {
		return types.Record{}, err
	}

	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return types.Record{}, fmt.Errorf("parse created_at: %w", err)
	}
	rec.CreatedAt = t

	// Finite results are rebuilt from the rendered value.
	if rec.Display != "" {
		if v, err := strconv.ParseFloat(rec.Display, 64); err == nil && !math.IsInf(v, 0) && !math.IsNaN(v) {
			rec.Result = &v
		}
	}
	return rec, nil
}
