package database

import (
	"context"
	"sync"
)

// Backend persists string values under a key, partitioned by client scope
type Backend interface {
	Get(ctx context.Context, scope, key string) (string, bool, error)
	Set(ctx context.Context, scope, key, value string) error
	Delete(ctx context.Context, scope, key string) error
	Health(ctx context.Context) error
}

// Storage is one client's key-value view of a Backend
type Storage interface {
	GetItem(ctx context.Context, key string) (string, bool, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

type scopedStorage struct {
	backend Backend
	scope   string
}

// Scope binds a backend to a single client
func Scope(b Backend, scope string) Storage {
	return &scopedStorage{backend: b, scope: scope}
}

func (s *scopedStorage) GetItem(ctx context.Context, key string) (string, bool, error) {
	return s.backend.Get(ctx, s.scope, key)
}

func (s *scopedStorage) SetItem(ctx context.Context, key, value string) error {
	return s.backend.Set(ctx, s.scope, key, value)
}

func (s *scopedStorage) RemoveItem(ctx context.Context, key string) error {
	return s.backend.Delete(ctx, s.scope, key)
}

// MemoryBackend keeps values in process memory
type MemoryBackend struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{scopes: make(map[string]map[string]string)}
}

func (m *MemoryBackend) Get(_ context.Context, scope, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.scopes[scope][key]
	return v, ok, nil
}

func (m *MemoryBackend) Set(_ context.Context, scope, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.scopes[scope]
	if !ok {
		items = make(map[string]string)
		m.scopes[scope] = items
	}
	items[key] = value
	return nil
}

func (m *MemoryBackend) Delete(_ context.Context, scope, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.scopes[scope], key)
	if len(m.scopes[scope]) == 0 {
		delete(m.scopes, scope)
	}
	return nil
}

func (m *MemoryBackend) Health(context.Context) error {
	return nil
}
