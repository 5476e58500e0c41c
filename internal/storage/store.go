// Package storage keeps the history of evaluated expressions.
package storage

import (
	"context"
	"errors"
	"fmt"

	types "distr-calc/internal/service/types"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrClosed   = errors.New("store is closed")
)

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Store persists history records. Implementations are safe for concurrent
// use.
type Store interface {
	Save(ctx context.Context, rec types.Record) error
	// Get returns ErrNotFound for unknown ids.
	Get(ctx context.Context, id string) (types.Record, error)
	// List returns records oldest first.
	List(ctx context.Context) ([]types.Record, error)
	Clear(ctx context.Context) error
	Close() error
}

type Config struct {
	Driver string `yaml:"driver"`
	// Path is the SQLite database file.
	Path string `yaml:"path"`
	// HistoryLimit caps the number of records kept in memory; 0 keeps all.
	HistoryLimit int `yaml:"history_limit"`
}

// Open creates the store selected by cfg.Driver.
func Open(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(cfg.HistoryLimit), nil
	case DriverSQLite:
		s, err := NewSQLiteStore(cfg.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
