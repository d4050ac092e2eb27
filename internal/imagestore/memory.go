package imagestore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mediconnect/pkg/platform/sentinel"
)

type storedObject struct {
	data        []byte
	contentType string
	tagging     string
}

// MemoryStore is an in-process Store for tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]storedObject
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]storedObject)}
}

func (m *MemoryStore) Put(_ context.Context, key string, data []byte, contentType, tagging string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	m.objects[key] = storedObject{data: cp, contentType: contentType, tagging: tagging}
	return nil
}

func (m *MemoryStore) PresignedGetURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.objects[key]; !ok {
		return "", fmt.Errorf("object %s: %w", key, sentinel.ErrNotFound)
	}
	return fmt.Sprintf("https://images.local/%s?expires=%d", key, int(ttl.Seconds())), nil
}

// Has reports whether an object exists, for test assertions.
func (m *MemoryStore) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// Tagging returns the tagging string stored with an object.
func (m *MemoryStore) Tagging(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.objects[key].tagging
}
