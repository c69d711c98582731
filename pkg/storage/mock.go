package storage

import (
	"context"
	"sync"
)

// MockKeyValue is an in-memory KeyValue for tests and the "memory" backend.
type MockKeyValue struct {
	mu        sync.RWMutex
	values    map[string]string
	pingError error
	getError  error
	setError  error
}

// Ensure MockKeyValue implements KeyValue interface
var _ KeyValue = (*MockKeyValue)(nil)

// NewMockKeyValue creates an empty in-memory store
func NewMockKeyValue() *MockKeyValue {
	return &MockKeyValue{
		values: make(map[string]string),
	}
}

// SetPingError configures the mock to fail on ping with the given error
func (m *MockKeyValue) SetPingError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pingError = err
}

// SetGetError configures the mock to fail every Get with the given error
func (m *MockKeyValue) SetGetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getError = err
}

// SetSetError configures the mock to fail every Set with the given error
func (m *MockKeyValue) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setError = err
}

// Put stores a raw value, bypassing the error hooks
func (m *MockKeyValue) Put(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Raw returns the raw value at key
func (m *MockKeyValue) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MockKeyValue) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.pingError
}

// Close is a no-op
func (m *MockKeyValue) Close() error {
	return nil
}

func (m *MockKeyValue) Get(ctx context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getError != nil {
		return "", false, m.getError
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MockKeyValue) Set(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setError != nil {
		return m.setError
	}
	m.values[key] = value
	return nil
}
