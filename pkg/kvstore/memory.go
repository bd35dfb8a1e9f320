package kvstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt *time.Time
}

// Memory keeps items in process. Used for development and tests.
type Memory struct {
	mu    sync.RWMutex
	items map[string]map[string]memoryEntry
	ttl   time.Duration
	now   func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		items: make(map[string]map[string]memoryEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

func (m *Memory) GetItem(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.items[sessionID][key]
	if !ok {
		return "", false, nil
	}
	if entry.expiresAt != nil && !m.now().Before(*entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

func (m *Memory) SetItem(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.items[sessionID]
	if !ok {
		bucket = make(map[string]memoryEntry)
		m.items[sessionID] = bucket
	}
	bucket[key] = memoryEntry{value: value, expiresAt: expiryFrom(m.now(), m.ttl)}
	return nil
}

func (m *Memory) RemoveItem(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	bucket, ok := m.items[sessionID]
	if !ok {
		return nil
	}
	delete(bucket, key)
	if len(bucket) == 0 {
		delete(m.items, sessionID)
	}
	return nil
}

func (m *Memory) Ping(context.Context) error { return nil }

// PurgeExpired drops expired entries and empty sessions.
func (m *Memory) PurgeExpired(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	var deleted int64
	for sid, bucket := range m.items {
		for key, entry := range bucket {
			if entry.expiresAt != nil && !now.Before(*entry.expiresAt) {
				delete(bucket, key)
				deleted++
			}
		}
		if len(bucket) == 0 {
			delete(m.items, sid)
		}
	}
	return deleted, nil
}
