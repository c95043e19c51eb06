// Package storage defines the key/value contract behind client-side state.
//
// [KeyValue] is the durable "local storage" and per-run "session storage" the stores write to.
// The SQLite implementation lives in the repositories package; [Memory] backs tests and is
// the fallback when no database can be opened.
package storage

import (
	"errors"
	"sync"
)

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("key not found")

// Storage keys shared by the client stores.
const (
	KeyAuthToken           = "authToken"
	KeyUserID              = "userId"
	KeyRole                = "role"
	KeyUserPreferences     = "userPreferences"
	KeyOnboardingCompleted = "onboardingCompleted"
	KeyPendingBooking      = "pendingBooking"
)

// KeyValue is a string key/value store. Writes are last-write-wins.
type KeyValue interface {
	Get(key string) (string, error) // Get returns [ErrNotFound] for a missing key
	Set(key, value string) error
	Remove(key string) error // Remove is a no-op for a missing key
}

// Memory is an in-process [KeyValue].
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemory creates an empty [Memory] store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.values, key)
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}
