package store

import (
	"encoding/json"
	"fmt"
	"sync"

	"WatchBoard/internal/model"
)

// MemoryStore is used when no SQLite path is configured. Values are kept
// serialized so readers never share memory with writers.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return raw, nil
}

func (m *MemoryStore) Put(id string, entry *model.CacheEntry) error {
	return m.set(entryKey(id), entry)
}

func (m *MemoryStore) Get(id string) (*model.CacheEntry, error) {
	key := entryKey(id)
	raw, err := m.get(key)
	if err != nil {
		return nil, err
	}
	return decodeEntry(key, raw)
}

func (m *MemoryStore) PutWatchList(watches []model.Watch) error {
	return m.set(watchListKey, watches)
}

func (m *MemoryStore) WatchList() ([]model.Watch, error) {
	raw, err := m.get(watchListKey)
	if err != nil {
		return nil, err
	}
	return decodeWatchList(raw)
}

func (m *MemoryStore) Close() error { return nil }
