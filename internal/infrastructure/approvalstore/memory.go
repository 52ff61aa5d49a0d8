// Package approvalstore provides the in-memory approval.Store used by the
// single process deployment. The interface keeps call sites unchanged if it
// is ever swapped for a networked store.
package approvalstore

import (
	"sync"
	"time"
)

type entry struct {
	approved bool
	storedAt time.Time
}

// Memory is a process-lifetime approval store with a bounded entry lifetime.
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemory creates a store whose entries expire after ttl.
func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Memory{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put records a decision and sweeps expired entries.
func (m *Memory) Put(approvalID string, approved bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.entries[approvalID] = entry{approved: approved, storedAt: now}

	cutoff := now.Add(-m.ttl)
	for id, e := range m.entries {
		if e.storedAt.Before(cutoff) {
			delete(m.entries, id)
		}
	}
}

// Get returns the stored decision for approvalID.
func (m *Memory) Get(approvalID string) (bool, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[approvalID]
	if !ok {
		return false, false
	}
	if e.storedAt.Before(m.now().Add(-m.ttl)) {
		delete(m.entries, approvalID)
		return false, false
	}
	return e.approved, true
}

// Remove deletes the entry for approvalID.
func (m *Memory) Remove(approvalID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, approvalID)
}
