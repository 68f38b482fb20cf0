package kv

import (
	"bytes"
	"context"
	"sort"
	"sync"
)

// Memory is an in-memory KV used as a test double for the sqlite medium.
// It keeps keys sorted so scans observe the same order as the durable store.
type Memory struct {
	mu   sync.RWMutex
	keys [][]byte
	vals map[string][]byte
}

var _ KV = (*Memory)(nil)

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{vals: make(map[string][]byte)}
}

func (m *Memory) search(key []byte) int {
	return sort.Search(len(m.keys), func(i int) bool {
		return bytes.Compare(m.keys[i], key) >= 0
	})
}

func (m *Memory) Get(_ context.Context, key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.vals[string(key)]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

func (m *Memory) Put(_ context.Context, key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vals[string(key)]; !ok {
		i := m.search(key)
		m.keys = append(m.keys, nil)
		copy(m.keys[i+1:], m.keys[i:])
		m.keys[i] = append([]byte(nil), key...)
	}
	m.vals[string(key)] = append([]byte(nil), value...)
	return nil
}

func (m *Memory) Delete(_ context.Context, key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.vals[string(key)]; !ok {
		return nil
	}
	delete(m.vals, string(key))
	i := m.search(key)
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	return nil
}

func (m *Memory) Scan(_ context.Context, start []byte, fn ScanFunc) error {
	m.mu.RLock()
	// Snapshot so fn may mutate the store without corrupting the walk.
	keys := make([][]byte, 0, len(m.keys))
	for _, k := range m.keys[m.search(start):] {
		keys = append(keys, k)
	}
	m.mu.RUnlock()

	for _, k := range keys {
		m.mu.RLock()
		v, ok := m.vals[string(k)]
		m.mu.RUnlock()
		if !ok {
			continue
		}
		cont, err := fn(k, v)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
	return nil
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.keys)
}
