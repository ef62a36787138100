package revocation

import (
	"context"
	"sync"
	"time"
)

// lazyPurgeThreshold triggers an inline purge when the entry count crosses
// a multiple of it, keeping the map bounded without a background goroutine.
const lazyPurgeThreshold = 4096

// MemoryStore is a process-local Store backed by a mutex-guarded map.
// Suitable for single-instance deployments and tests; multi-instance
// deployments should share a RedisStore instead.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryStore returns an empty in-memory Store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time)}
}

// Revoke inserts or extends an entry. The later expiry always wins so a
// re-revocation can never shorten an existing entry's lifetime.
func (m *MemoryStore) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[tokenID]; ok && existing.After(expiresAt) {
		return nil
	}
	m.entries[tokenID] = expiresAt
	m.maybePurgeLocked(time.Now())
	return nil
}

// RevokeIfAbsent performs the atomic check-and-insert under a single lock
// acquisition. An entry that has already expired counts as absent.
func (m *MemoryStore) RevokeIfAbsent(_ context.Context, tokenID string, expiresAt time.Time) (bool, error) {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.entries[tokenID]; ok && existing.After(now) {
		return false, nil
	}
	m.entries[tokenID] = expiresAt
	m.maybePurgeLocked(now)
	return true, nil
}

// IsRevoked reads under the shared lock. Expired entries report false and
// are left for the purge path to collect.
func (m *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	expiresAt, ok := m.entries[tokenID]
	if !ok {
		return false, nil
	}
	return expiresAt.After(time.Now()), nil
}

// PurgeExpired removes entries whose expiry is at or before now.
func (m *MemoryStore) PurgeExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.purgeLocked(now), nil
}

// Len reports the current entry count, expired entries included.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *MemoryStore) maybePurgeLocked(now time.Time) {
	if len(m.entries)%lazyPurgeThreshold == 0 && len(m.entries) > 0 {
		m.purgeLocked(now)
	}
}

func (m *MemoryStore) purgeLocked(now time.Time) int {
	purged := 0
	for id, expiresAt := range m.entries {
		if !expiresAt.After(now) {
			delete(m.entries, id)
			purged++
		}
	}
	return purged
}
