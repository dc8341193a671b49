package rating

import (
	"strings"
	"sync"

	"cine-lens/logging"
)

// Cache memoizes lookup results by title for the lifetime of a session.
type Cache interface {
	Get(title string) (Result, bool)
	Put(title string, res Result)
}

// Store persists found records across sessions.
type Store interface {
	GetRating(title string) (Record, bool, error)
	SaveRating(title string, rec Record) error
}

// MemoryCache is a mutex-guarded map with no eviction.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]Result
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]Result)}
}

func (c *MemoryCache) Get(title string) (Result, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	res, ok := c.entries[title]
	return res, ok
}

func (c *MemoryCache) Put(title string, res Result) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[title] = res
}

func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// CachedLookup resolves titles through Cache, then Store, then Looker.
// Every result, NotFound included, is kept in Cache; only found records reach Store.
// Store is optional.
type CachedLookup struct {
	Looker Looker
	Cache  Cache
	Store  Store
}

// NewCachedLookup wraps looker with a fresh MemoryCache.
func NewCachedLookup(looker Looker, store Store) *CachedLookup {
	return &CachedLookup{Looker: looker, Cache: NewMemoryCache(), Store: store}
}

// Lookup keys every layer by the trimmed title.
func (l *CachedLookup) Lookup(title string) Result {
	title = strings.TrimSpace(title)
	if title == "" {
		return NotFound
	}

	if res, ok := l.Cache.Get(title); ok {
		return res
	}

	if l.Store != nil {
		rec, ok, err := l.Store.GetRating(title)
		if err != nil {
			logging.Warn().Err(err).Str("title", title).Msg("Failed to read stored rating")
		} else if ok {
			res := Found(rec)
			l.Cache.Put(title, res)
			return res
		}
	}

	res := l.Looker.Lookup(title)
	l.Cache.Put(title, res)

	if res.Found && l.Store != nil {
		if err := l.Store.SaveRating(title, res.Record); err != nil {
			logging.Warn().Err(err).Str("title", title).Msg("Failed to store rating")
		}
	}
	return res
}
