// Package testutil holds in-memory fakes shared by tracker tests.
package testutil

import (
	"context"
	"errors"
	"sync"

	json "github.com/goccy/go-json"
)

// ErrSaveFailed is returned by MemoryDocumentStore while FailSaves is set.
var ErrSaveFailed = errors.New("save failed")

// MemoryDocumentStore keeps encoded documents in a map.
type MemoryDocumentStore struct {
	mu        sync.Mutex
	docs      map[string][]byte
	Saves     map[string]int
	FailSaves bool
}

func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{docs: make(map[string][]byte), Saves: make(map[string]int)}
}

func (m *MemoryDocumentStore) Save(_ context.Context, name string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSaves {
		return ErrSaveFailed
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.docs[name] = data
	m.Saves[name]++
	return nil
}

func (m *MemoryDocumentStore) Load(_ context.Context, name string, dest interface{}) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.docs[name]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

// SetFailSaves toggles save failures.
func (m *MemoryDocumentStore) SetFailSaves(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FailSaves = fail
}

// SaveCount returns how many successful saves name has seen.
func (m *MemoryDocumentStore) SaveCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves[name]
}
