package registry

import (
	"context"
	"sync"
)

// Memory is a registry backed by a map. It is safe for concurrent use.
type Memory struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewMemory creates a registry holding a copy of names.
func NewMemory(names map[string]string) *Memory {
	m := &Memory{names: make(map[string]string, len(names))}
	for nid, name := range names {
		m.names[nid] = name
	}
	return m
}

// Lookup returns the name stored for nid.
func (m *Memory) Lookup(ctx context.Context, nid string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.names[nid]
	return name, ok, nil
}

// Replace swaps the whole table.
func (m *Memory) Replace(names map[string]string) {
	next := make(map[string]string, len(names))
	for nid, name := range names {
		next[nid] = name
	}
	m.mu.Lock()
	m.names = next
	m.mu.Unlock()
}

// Len returns the number of entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.names)
}

func (m *Memory) Close() error { return nil }
