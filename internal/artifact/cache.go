package artifact

import (
	"os"
	"sync"
	"time"

	"ncclens/internal/errors"
)

// LoadFunc turns an artifact path into a loaded value
type LoadFunc[T any] func(path string) (T, error)

// Cache memoizes a LoadFunc per path. An entry is reused while the file's
// modification time and size are unchanged and reloaded as soon as either moves.
type Cache[T any] struct {
	load    LoadFunc[T]
	mu      sync.RWMutex
	entries map[string]cacheEntry[T]
	loads   int
}

type cacheEntry[T any] struct {
	value    T
	modTime  time.Time
	size     int64
	loadedAt time.Time
}

// NewCache wraps load with path + mtime memoization
func NewCache[T any](load LoadFunc[T]) *Cache[T] {
	return &Cache[T]{
		load:    load,
		entries: make(map[string]cacheEntry[T]),
	}
}

// Get returns the cached value for path, reloading when the file changed
func (c *Cache[T]) Get(path string) (T, error) {
	var zero T

	info, err := os.Stat(path)
	if err != nil {
		c.Invalidate(path)
		if os.IsNotExist(err) {
			return zero, errors.DataFileNotFound(path)
		}
		return zero, errors.MalformedData("cannot stat data file "+path, err)
	}

	c.mu.RLock()
	entry, ok := c.entries[path]
	c.mu.RUnlock()
	if ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.value, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// another caller may have reloaded while we waited for the lock
	if entry, ok := c.entries[path]; ok && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
		return entry.value, nil
	}

	value, err := c.load(path)
	if err != nil {
		delete(c.entries, path)
		return zero, err
	}
	c.loads++
	c.entries[path] = cacheEntry[T]{
		value:    value,
		modTime:  info.ModTime(),
		size:     info.Size(),
		loadedAt: time.Now(),
	}
	return value, nil
}

// Invalidate drops the entry for path
func (c *Cache[T]) Invalidate(path string) {
	c.mu.Lock()
	delete(c.entries, path)
	c.mu.Unlock()
}

// LoadedAt reports when path was last loaded, zero when not cached
func (c *Cache[T]) LoadedAt(path string) time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries[path].loadedAt
}

// Loads returns how many times the underlying LoadFunc ran successfully
func (c *Cache[T]) Loads() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loads
}
