package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/backoffice/pkg/cache"
	"github.com/amirasaad/backoffice/pkg/provider/exchange"
)

type memoryEntry struct {
	set       *exchange.RateSet
	expiresAt time.Time
}

// MemoryRateCache is a process-local RateCache.
type MemoryRateCache struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

var _ cache.RateCache = (*MemoryRateCache)(nil)

// NewMemoryRateCache creates an empty in-memory cache.
func NewMemoryRateCache() *MemoryRateCache {
	return &MemoryRateCache{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryRateCache) Get(_ context.Context, base string) (*exchange.RateSet, error) {
	key := strings.ToUpper(base)
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && m.now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return nil, nil
	}
	return e.set, nil
}

func (m *MemoryRateCache) Set(_ context.Context, set *exchange.RateSet, ttl time.Duration) error {
	e := memoryEntry{set: set}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.entries[strings.ToUpper(set.Base)] = e
	m.mu.Unlock()
	return nil
}

func (m *MemoryRateCache) Delete(_ context.Context, base string) error {
	m.mu.Lock()
	delete(m.entries, strings.ToUpper(base))
	m.mu.Unlock()
	return nil
}
