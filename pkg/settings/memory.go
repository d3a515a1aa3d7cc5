package settings

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryBackend holds values for a limited time, used for session scoped state
type MemoryBackend struct {
	items *cache.Cache
}

func NewMemoryBackend(ttl time.Duration) *MemoryBackend {
	return &MemoryBackend{items: cache.New(ttl, ttl)}
}

func (m *MemoryBackend) Get(key string) (string, error) {

	v, ok := m.items.Get(key)
	if !ok {
		return "", ErrNotFound
	}

	s, ok := v.(string)
	if !ok {
		return "", ErrNotFound
	}

	return s, nil
}

// Set also refreshes the expiry
func (m *MemoryBackend) Set(key string, value string) error {
	m.items.SetDefault(key, value)
	return nil
}
