package chart

import (
	"sync"
	"time"
)

type cacheEntry struct {
	createdAt time.Time
	image     []byte
}

// Cache keeps rendered images for a fixed TTL.
type Cache struct {
	mu    sync.Mutex
	ttl   time.Duration
	items map[string]cacheEntry
	now   func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return &Cache{ttl: ttl, items: make(map[string]cacheEntry), now: time.Now}
}

// Get returns a copy of a live image.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(entry.createdAt.Add(c.ttl)) {
		delete(c.items, key)
		return nil, false
	}
	img := make([]byte, len(entry.image))
	copy(img, entry.image)
	return img, true
}

func (c *Cache) Set(key string, img []byte) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = cacheEntry{createdAt: c.now(), image: img}
	c.sweep()
}

// sweep drops expired images. Callers hold mu.
func (c *Cache) sweep() {
	now := c.now()
	for k, e := range c.items {
		if !now.Before(e.createdAt.Add(c.ttl)) {
			delete(c.items, k)
		}
	}
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}
