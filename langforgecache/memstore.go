package langforgecache

import (
	"context"
	"sync"
)

// MemStore is a sync.Map-backed Store, the default backend.
type MemStore struct {
	entries sync.Map
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (m *MemStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, ok := m.entries.Load(key)
	if !ok {
		return nil, false, nil
	}
	return v.([]byte), true, nil
}

func (m *MemStore) Set(ctx context.Context, key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	m.entries.Store(key, cp)
	return nil
}

func (m *MemStore) Close() error {
	return nil
}
