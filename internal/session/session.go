// Package session provides the key/value stores that hold identity blobs
// (partner_session, user). Profile bodies are never stored here.
package session

import (
	"context"
	"errors"
	"sync"
)

// Well-known keys.
const (
	KeyPartnerSession = "partner_session"
	KeyUser           = "user"
)

// ErrNotFound is returned by Get for a missing key.
var ErrNotFound = errors.New("session key not found")

// Store is a small key/value store for session envelopes.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Clear(ctx context.Context, key string) error
}

// MemoryStore is a process-scoped Store, the equivalent of a browser
// tab's session storage.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

var _ Store = (*MemoryStore)(nil)
