// Package memory provides an in-memory KeyValueStorage used when the durable
// store cannot be opened and as a test double. Values do not survive a
// restart; callers degrade gracefully per the persistence contract.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tripscout/tripscout/internal/interfaces"
)

// KV is a mutex-guarded map implementing interfaces.KeyValueStorage.
type KV struct {
	mu    sync.RWMutex
	pairs map[string]interfaces.KeyValuePair
}

// NewKV creates an empty in-memory store.
func NewKV() *KV {
	return &KV{pairs: make(map[string]interfaces.KeyValuePair)}
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

// Get retrieves a value by key.
func (s *KV) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pair, ok := s.pairs[normalizeKey(key)]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return pair.Value, nil
}

// Set inserts or updates a key/value pair.
func (s *KV) Set(ctx context.Context, key string, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := normalizeKey(key)
	now := time.Now()
	pair := interfaces.KeyValuePair{Key: k, Value: value, CreatedAt: now, UpdatedAt: now}
	if existing, ok := s.pairs[k]; ok {
		pair.CreatedAt = existing.CreatedAt
	}
	s.pairs[k] = pair
	return nil
}

// Delete removes a key/value pair.
func (s *KV) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := normalizeKey(key)
	if _, ok := s.pairs[k]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(s.pairs, k)
	return nil
}

// List returns all pairs ordered by updated_at DESC.
func (s *KV) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]interfaces.KeyValuePair, 0, len(s.pairs))
	for _, pair := range s.pairs {
		out = append(out, pair)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}
