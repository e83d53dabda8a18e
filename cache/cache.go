package cache

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/golang/groupcache/lru"
)

// ResourceCache caches the resource key indexed for a source path.
type ResourceCache struct {
	cache *lru.Cache
	mu    sync.RWMutex // guards cache, lru.Cache is not safe for concurrent use
}

// NewResourceCache creates a new ResourceCache holding at most size entries.
func NewResourceCache(size int) *ResourceCache {
	return &ResourceCache{
		cache: lru.New(size),
	}
}

// NormalizePath turns a toolchain path into the form used as cache key.
func NormalizePath(path string) string {
	return filepath.ToSlash(filepath.Clean(strings.ReplaceAll(path, "\\", "/")))
}

// Get returns the cached resource key for the given path, if available.
func (c *ResourceCache) Get(path string) (string, bool) {
	c.mu.Lock() // lru.Get reorders the list
	defer c.mu.Unlock()
	if val, ok := c.cache.Get(NormalizePath(path)); ok {
		return val.(string), true
	}
	return "", false
}

// Put adds the resource key for a path into the cache.
func (c *ResourceCache) Put(path, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(NormalizePath(path), key)
}

// Resolve returns the resource key for path, calling lookup on a miss. Misses
// that lookup cannot resolve are not cached.
func (c *ResourceCache) Resolve(path string, lookup func(string) (string, bool)) (string, bool) {
	if key, ok := c.Get(path); ok {
		return key, true
	}

	key, ok := lookup(NormalizePath(path))
	if !ok {
		return "", false
	}
	c.Put(path, key)
	return key, true
}

// Len returns the number of cached entries.
func (c *ResourceCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cache.Len()
}

// Clear clears the cache.
func (c *ResourceCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}
