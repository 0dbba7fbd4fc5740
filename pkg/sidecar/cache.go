package sidecar

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// IdentityCache stores the last-resolved identity string per dependency
// path. It is the only long-lived state the engine owns: the resolver
// writes it as a side effect so later passes can short-circuit when a
// dependency's own sidecar is unreachable.
type IdentityCache interface {
	// Get returns the cached identity for a normalized dependency path.
	Get(path string) (string, bool)

	// Put records the resolved identity for a normalized dependency path.
	Put(path, identity string)

	// Reset discards all cached identities.
	Reset()
}

// MemoryCache is a process-scoped IdentityCache.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryCache creates an empty in-memory identity cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]string)}
}

// Get implements IdentityCache.
func (c *MemoryCache) Get(path string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.entries[path]
	return v, ok
}

// Put implements IdentityCache.
func (c *MemoryCache) Put(path, identity string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = identity
}

// Reset implements IdentityCache.
func (c *MemoryCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
}

// FileCache is an IdentityCache persisted to a YAML file so resolved
// identities survive process restarts.
type FileCache struct {
	mem  *MemoryCache
	fs   afero.Fs
	path string
}

// NewFileCache loads (or lazily creates) a file-backed identity cache.
// A missing file yields an empty cache; a malformed file is an error, since
// overwriting it would silently discard identities.
func NewFileCache(fs afero.Fs, path string) (*FileCache, error) {
	c := &FileCache{
		mem:  NewMemoryCache(),
		fs:   fs,
		path: path,
	}

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, fmt.Errorf("failed to read identity cache: %w", err)
	}

	entries := make(map[string]string)
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse identity cache %s: %w", path, err)
	}
	c.mem.entries = entries
	return c, nil
}

// Get implements IdentityCache.
func (c *FileCache) Get(path string) (string, bool) {
	return c.mem.Get(path)
}

// Put implements IdentityCache.
func (c *FileCache) Put(path, identity string) {
	c.mem.Put(path, identity)
}

// Reset implements IdentityCache.
func (c *FileCache) Reset() {
	c.mem.Reset()
}

// Flush writes the cache contents back to its file.
func (c *FileCache) Flush() error {
	c.mem.mu.Lock()
	data, err := yaml.Marshal(c.mem.entries)
	c.mem.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to marshal identity cache: %w", err)
	}
	if err := afero.WriteFile(c.fs, c.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write identity cache: %w", err)
	}
	return nil
}
