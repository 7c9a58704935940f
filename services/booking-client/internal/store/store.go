// Package store holds the durable key/value backends the session manager persists to.
// Every backend writes a batch of entries all-or-nothing so a token is never stored
// without its identity.
package store

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("store: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set writes every entry or none of them.
	Set(ctx context.Context, entries map[string]string) error
	// Delete removes the keys; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Memory is a process-local Store, used by tests and the "memory" backend.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range entries {
		m.data[k] = v
	}
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Keys lists what is currently stored; handy in tests.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
