package adapter

import (
	"log/slog"
	"strconv"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
	m "snipcheck.dev/pkg/snipcheck/internal/model"
)

// DeclarationCache memoizes reads of the target library's declaration tree.
//
// Entries are tagged with the epoch in which they were populated. Invalidate
// starts a new epoch, after which older entries are treated as absent, so a
// read racing with an invalidation can never resurrect stale content.
type DeclarationCache interface {
	// ReadFile returns the file contents, or false when the file does not
	// exist. Misses are cached too.
	ReadFile(path m.Path) ([]byte, bool)

	// ReadDir returns the sorted regular-file names of a directory, or false
	// when it cannot be listed.
	ReadDir(path m.Path) ([]string, bool)

	// Remember memoizes a derived value (e.g. the declaration root) for the
	// current epoch.
	Remember(key string, compute func() string) string

	// Invalidate drops every entry by advancing the epoch.
	Invalidate()

	// Epoch returns the current generation.
	Epoch() uint64
}

type cacheKind byte

const (
	kindFile cacheKind = 'f'
	kindDir  cacheKind = 'd'
	kindMemo cacheKind = 'm'
)

type cacheKey struct {
	kind cacheKind
	key  string
}

type cacheEntry struct {
	epoch uint64
	data  []byte
	names []string
	value string
	ok    bool
}

type declarationCache struct {
	fs      SourceFSAdapter
	epoch   atomic.Uint64
	mu      sync.RWMutex
	entries map[cacheKey]cacheEntry
	group   singleflight.Group
}

// NewDeclarationCache returns a DeclarationCache reading through fs.
func NewDeclarationCache(fs SourceFSAdapter) DeclarationCache {
	return &declarationCache{
		fs:      fs,
		entries: make(map[cacheKey]cacheEntry),
	}
}

func (c *declarationCache) ReadFile(path m.Path) ([]byte, bool) {
	entry := c.load(cacheKey{kind: kindFile, key: string(path)}, func() cacheEntry {
		data, err := c.fs.ReadFile(path)
		if err != nil {
			slog.Debug("declaration read miss", "path", path, "error", err)
			return cacheEntry{}
		}

		return cacheEntry{data: data, ok: true}
	})

	return entry.data, entry.ok
}

func (c *declarationCache) ReadDir(path m.Path) ([]string, bool) {
	entry := c.load(cacheKey{kind: kindDir, key: string(path)}, func() cacheEntry {
		names, err := c.fs.ReadDir(path)
		if err != nil {
			slog.Debug("declaration listing miss", "path", path, "error", err)
			return cacheEntry{}
		}

		return cacheEntry{names: names, ok: true}
	})

	return entry.names, entry.ok
}

func (c *declarationCache) Remember(key string, compute func() string) string {
	entry := c.load(cacheKey{kind: kindMemo, key: key}, func() cacheEntry {
		return cacheEntry{value: compute(), ok: true}
	})

	return entry.value
}

func (c *declarationCache) Invalidate() {
	next := c.epoch.Add(1)

	c.mu.Lock()
	c.entries = make(map[cacheKey]cacheEntry)
	c.mu.Unlock()

	slog.Debug("declaration cache invalidated", "epoch", next)
}

func (c *declarationCache) Epoch() uint64 {
	return c.epoch.Load()
}

func (c *declarationCache) load(key cacheKey, populate func() cacheEntry) cacheEntry {
	epoch := c.epoch.Load()

	c.mu.RLock()
	entry, found := c.entries[key]
	c.mu.RUnlock()

	if found && entry.epoch == epoch {
		return entry
	}

	flightKey := strconv.FormatUint(epoch, 10) + ":" + string(key.kind) + ":" + key.key

	v, _, _ := c.group.Do(flightKey, func() (interface{}, error) {
		fresh := populate()
		fresh.epoch = epoch

		c.mu.Lock()
		if c.epoch.Load() == epoch {
			c.entries[key] = fresh
		}
		c.mu.Unlock()

		return fresh, nil
	})

	return v.(cacheEntry)
}
