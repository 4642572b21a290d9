package store

import (
	"context"
	"sync"
)

// Memory is an in-process Store. It is the development default and the test
// double for the repository layer.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string

	// FailReads and FailWrites force errors for fault-injection tests.
	FailReads  error
	FailWrites error
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	if m.FailReads != nil {
		return "", false, m.FailReads
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *Memory) RemoveMany(_ context.Context, keys ...string) error {
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.values, k)
	}
	return nil
}
