// Package lru provides a small bounded cache with least-recently-used
// eviction, used to memoize converter resolution results.
package lru

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// entry holds a cached value and its eviction-list element.
type entry struct {
	key   string
	value any
	elem  *list.Element
}

// Cache is a mutex-guarded LRU cache. A zero capacity means unbounded.
type Cache struct {
	mu        sync.Mutex
	items     map[string]*entry
	evictList *list.List
	capacity  int
	hits      atomic.Int64
	misses    atomic.Int64
}

// New creates a Cache bounded to capacity entries.
func New(capacity int) *Cache {
	return &Cache{
		items:     make(map[string]*entry),
		evictList: list.New(),
		capacity:  capacity,
	}
}

// Get retrieves a value by key, marking it most recently used.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.evictList.MoveToFront(e.elem)
	c.hits.Add(1)
	return e.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is at capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.items[key]; ok {
		e.value = value
		c.evictList.MoveToFront(e.elem)
		return
	}

	if c.capacity > 0 && len(c.items) >= c.capacity {
		if back := c.evictList.Back(); back != nil {
			c.removeEntry(back.Value.(*entry))
		}
	}

	e := &entry{key: key, value: value}
	e.elem = c.evictList.PushFront(e)
	c.items[key] = e
}

// Purge removes all entries. Hit and miss counters are preserved.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*entry)
	c.evictList.Init()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Stats holds hit/miss/entry counts.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int64
}

// Stats returns current statistics.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	entries := int64(len(c.items))
	c.mu.Unlock()
	return Stats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: entries}
}

func (c *Cache) removeEntry(e *entry) {
	delete(c.items, e.key)
	if e.elem != nil {
		c.evictList.Remove(e.elem)
	}
}
