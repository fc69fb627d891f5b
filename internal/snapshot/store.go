package snapshot

import (
	"context"
	"sync"

	"todomaster/internal/errors"
	"todomaster/internal/repository/sqlite"
)

// KVStore is a persisted key-value capability. Get reports absence with
// found=false rather than an error.
type KVStore interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// MemoryStore is an in-process KVStore
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

// SQLiteStore adapts the repository key-value table to KVStore
type SQLiteStore struct {
	repo sqlite.Repository
}

// NewSQLiteStore wraps repo
func NewSQLiteStore(repo sqlite.Repository) *SQLiteStore {
	return &SQLiteStore{repo: repo}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := s.repo.GetValue(ctx, key)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return entry.Value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return s.repo.SetValue(ctx, key, value)
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	return s.repo.DeleteValue(ctx, key)
}
