package storage

import (
	"context"
	"sync"

	types "distr-calc/internal/service/types"
)

// MemoryStore keeps records in process memory. When a limit is set the
// oldest record is evicted once the limit is reached.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]types.Record
	order   []string
	limit   int
	closed  bool
}

func NewMemoryStore(limit int) *MemoryStore {
	if limit < 0 {
		limit = 0
	}
	return &MemoryStore{
		records: make(map[string]types.Record),
		limit:   limit,
	}
}

// Save implements Store. Saving an existing id replaces the record in place.
func (s *MemoryStore) Save(_ context.Context, rec types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, exists := s.records[rec.ID]; !exists {
		if s.limit > 0 && len(s.order) >= s.limit {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.records, oldest)
		}
		s.order = append(s.order, rec.ID)
	}
	s.records[rec.ID] = rec
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return types.Record{}, ErrClosed
	}
	rec, exists := s.records[id]
	if !exists {
		return types.Record{}, ErrNotFound
	}
	return rec, nil
}

// List implements Store.
func (s *MemoryStore) List(_ context.Context) ([]types.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	records := make([]types.Record, 0, len(s.order))
	for _, id := range s.order {
		records = append(records, s.records[id])
	}
	return records, nil
}

// Clear implements Store.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.records = make(map[string]types.Record)
	s.order = nil
	return nil
}

// Close implements Store.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
