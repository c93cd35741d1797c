// Package memory implements core.KeyValue in process memory.
// Values do not survive a restart; it backs tests and --backend=memory.
package memory

import (
	"bytes"
	"context"
	"sync"

	"github.com/aretw0/ainotes/pkg/core"
)

// Store is a mutex-guarded map.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get implements core.KeyValue.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, core.ErrKeyNotFound
	}
	return bytes.Clone(v), nil
}

// Set implements core.KeyValue.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = bytes.Clone(value)
	return nil
}

// Close implements core.KeyValue.
func (s *Store) Close() error {
	return nil
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory"
}

var _ core.KeyValue = (*Store)(nil)
