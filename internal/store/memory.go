package store

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/justestif/moodtunes/internal/moodlog"
)

// Memory is an in-memory Backend for development and tests.
type Memory struct {
	mu      sync.RWMutex
	lastID  int64
	entries map[int64]moodlog.Entry
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[int64]moodlog.Entry),
	}
}

// Insert stores e under the next ID.
func (m *Memory) Insert(_ context.Context, e moodlog.Entry) (moodlog.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastID++
	e.ID = m.lastID
	m.entries[e.ID] = e
	return e, nil
}

// Replace overwrites an existing entry.
func (m *Memory) Replace(_ context.Context, e moodlog.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[e.ID]; !ok {
		return moodlog.ErrNotFound
	}
	m.entries[e.ID] = e
	return nil
}

// Remove deletes an entry.
func (m *Memory) Remove(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[id]; !ok {
		return moodlog.ErrNotFound
	}
	delete(m.entries, id)
	return nil
}

// Get returns one entry.
func (m *Memory) Get(_ context.Context, id int64) (moodlog.Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[id]
	if !ok {
		return moodlog.Entry{}, moodlog.ErrNotFound
	}
	return e, nil
}

// List returns every entry, newest first, ties broken by higher ID.
func (m *Memory) List(_ context.Context) ([]moodlog.Entry, error) {
	m.mu.RLock()
	out := make([]moodlog.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	m.mu.RUnlock()

	slices.SortFunc(out, func(a, b moodlog.Entry) int {
		if c := cmp.Compare(b.Timestamp, a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}
