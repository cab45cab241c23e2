package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry[V any] struct {
	value   V
	expires time.Time
}

// Memory is a process-local Cache. Expired entries are dropped when read
// or when room is needed; a full cache evicts the entry closest to expiry.
type Memory[V any] struct {
	mu      sync.Mutex
	entries map[string]memoryEntry[V]
	opts    options
	now     func() time.Time
}

var _ Cache[struct{}] = (*Memory[struct{}])(nil)

func NewMemory[V any](opts ...Option) *Memory[V] {
	return &Memory[V]{
		entries: make(map[string]memoryEntry[V]),
		opts:    newOptions(opts),
		now:     time.Now,
	}
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok || !e.expires.After(m.now()) {
		delete(m.entries, key)
		var zero V
		return zero, ErrNotFound
	}
	return e.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = m.opts.ttl
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if _, exists := m.entries[key]; !exists && m.opts.maxEntries > 0 && len(m.entries) >= m.opts.maxEntries {
		m.makeRoom(now)
	}
	m.entries[key] = memoryEntry[V]{value: value, expires: now.Add(ttl)}
	return nil
}

func (m *Memory[V]) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.entries)
	return nil
}

// Len counts stored entries, expired ones included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *Memory[V]) makeRoom(now time.Time) {
	var (
		victim string
		soon   time.Time
	)
	for k, e := range m.entries {
		if !e.expires.After(now) {
			delete(m.entries, k)
			continue
		}
		if victim == "" || e.expires.Before(soon) {
			victim, soon = k, e.expires
		}
	}
	if len(m.entries) >= m.opts.maxEntries && victim != "" {
		delete(m.entries, victim)
	}
}
