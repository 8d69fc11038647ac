package store

import (
	"context"
	"sync"

	"github.com/arbiterhq/arbiter/service/dao"
)

// MemoryStore is a generic in-memory implementation of dao.Service.
// It keeps entities of type *T mapped by a comparable key K.  The key is
// obtained from the supplied keySelector function; when a cloner is
// configured the store hands out copies so callers can never mutate shared
// state behind the store's back.
//
// This helper lets concrete DAOs embed the store and avoid rewriting
// identical Save/Load/Delete/List logic for every entity type.  It contains
// no business logic such as status filtering – higher-level DAOs override
// List when they need additional behaviour.
type MemoryStore[K comparable, T any] struct {
	mu          sync.RWMutex
	records     map[K]*T
	keySelector func(*T) K
	cloner      func(*T) *T
}

// NewMemoryStore creates a new MemoryStore.
// keySelector extracts the entity key (usually the ID field) from a value.
func NewMemoryStore[K comparable, T any](keySelector func(*T) K, options ...Option[K, T]) *MemoryStore[K, T] {
	ret := &MemoryStore[K, T]{
		records:     make(map[K]*T),
		keySelector: keySelector,
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

func (s *MemoryStore[K, T]) clone(v *T) *T {
	if v == nil || s.cloner == nil {
		return v
	}
	return s.cloner(v)
}

// Save stores or overwrites a record.
func (s *MemoryStore[K, T]) Save(_ context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := s.keySelector(v)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[key] = s.clone(v)
	return nil
}

// Load returns a record by key or dao.ErrNotFound.
func (s *MemoryStore[K, T]) Load(_ context.Context, key K) (*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.records[key]
	if !ok {
		return nil, dao.ErrNotFound
	}
	return s.clone(v), nil
}

// Delete removes a record.
func (s *MemoryStore[K, T]) Delete(_ context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[key]; !ok {
		return dao.ErrNotFound
	}
	delete(s.records, key)
	return nil
}

// List returns all stored records.
func (s *MemoryStore[K, T]) List(_ context.Context, _ ...*dao.Parameter) ([]*T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*T, 0, len(s.records))
	for _, v := range s.records {
		out = append(out, s.clone(v))
	}
	return out, nil
}

// Option customises a MemoryStore.
type Option[K comparable, T any] func(*MemoryStore[K, T])

// WithCloner makes the store copy entities on every Save/Load/List so the
// stored state is isolated from caller mutation.
func WithCloner[K comparable, T any](cloner func(*T) *T) Option[K, T] {
	return func(s *MemoryStore[K, T]) { s.cloner = cloner }
}
