package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"cryptodash/internal/ports"
)

// MemoryCache is the in-process TTL cache for upstream payloads. It runs no
// janitor: stale entries are not purged, they simply stop being returned and
// are overwritten by the next Set for the same key.
type MemoryCache struct {
	c *gocache.Cache
}

func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 0)}
}

func (m *MemoryCache) Get(_ context.Context, key ports.Key) ([]byte, bool) {
	v, ok := m.c.Get(key.String())
	if !ok {
		return nil, false
	}
	payload := v.([]byte)
	// копия, чтобы потребитель не мог изменить закэшированное значение
	out := make([]byte, len(payload))
	copy(out, payload)
	return out, true
}

func (m *MemoryCache) Set(_ context.Context, key ports.Key, payload []byte) error {
	stored := make([]byte, len(payload))
	copy(stored, payload)
	m.c.SetDefault(key.String(), stored)
	return nil
}

func (m *MemoryCache) Health(_ context.Context) error {
	return nil
}
