package texture

import (
	"log/slog"
	"sync"

	"softrender/internal/tga"
)

// Resolver resolves a texture path to a decoded image.
// Missing or broken files resolve to nil.
type Resolver interface {
	Resolve(path string) *tga.Image
}

// Files loads every request from disk without caching.
type Files struct{}

func (Files) Resolve(path string) *tga.Image {
	img, err := Load(path)
	if err != nil {
		slog.Debug("texture unavailable", "path", path, "err", err)
		return nil
	}
	return img
}

// Cache is a concurrency-safe texture cache. Entries are shared read-only
// between renders.
type Cache struct {
	mu    sync.RWMutex
	items map[string]*cacheEntry
}

type cacheEntry struct {
	img *tga.Image // nil if the load failed
}

// NewCache creates an empty texture cache.
func NewCache() *Cache {
	return &Cache{items: make(map[string]*cacheEntry)}
}

// Resolve loads and caches a texture by path. Returns nil if not found.
func (c *Cache) Resolve(path string) *tga.Image {
	// Fast path: read lock
	c.mu.RLock()
	if entry, exists := c.items[path]; exists {
		c.mu.RUnlock()
		return entry.img
	}
	c.mu.RUnlock()

	// Slow path: load from disk
	img := Files{}.Resolve(path)

	// Write lock with double-check
	c.mu.Lock()
	if entry, exists := c.items[path]; exists {
		c.mu.Unlock()
		return entry.img
	}
	c.items[path] = &cacheEntry{img: img}
	c.mu.Unlock()

	return img
}

// Len returns the number of cached lookups, failed ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
