package memory

import (
	"github.com/tripscout/tripscout/internal/interfaces"
)

// Manager implements interfaces.StorageManager over the in-memory KV. There
// is no connection behind it, so garbage collection and close are no-ops.
type Manager struct {
	kv *KV
}

// NewManager creates a storage manager backed by an empty in-memory store.
func NewManager() interfaces.StorageManager {
	return &Manager{kv: NewKV()}
}

// KeyValueStorage returns the key/value store.
func (m *Manager) KeyValueStorage() interfaces.KeyValueStorage {
	return m.kv
}

// RunGC is a no-op.
func (m *Manager) RunGC() error {
	return nil
}

// Close is a no-op.
func (m *Manager) Close() error {
	return nil
}
