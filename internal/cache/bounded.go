// Package cache holds the size-bounded stores behind the route and pair caches.
package cache

import (
	"container/list"
	"sync"
)

// BoundedCache is a thread-safe map bounded by entry count. When full, the entry written longest
// ago is evicted. Reads never change eviction order, unlike an LRU.
type BoundedCache[K comparable, V any] struct {
	mu      sync.RWMutex
	items   map[K]*list.Element
	order   *list.List
	maxSize int
	zeroVal V

	evictions uint64
}

type boundedEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewBoundedCache creates a cache holding at most maxSize entries. maxSize < 1 is treated as 1.
func NewBoundedCache[K comparable, V any](maxSize int) *BoundedCache[K, V] {
	if maxSize < 1 {
		maxSize = 1
	}
	return &BoundedCache[K, V]{
		items:   make(map[K]*list.Element, maxSize),
		order:   list.New(),
		maxSize: maxSize,
	}
}

func (c *BoundedCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	elem, ok := c.items[key]
	if !ok {
		return c.zeroVal, false
	}
	return elem.Value.(*boundedEntry[K, V]).value, true
}

// Set adds or overwrites a value. An overwrite counts as a fresh write and moves the entry to the
// newest position.
func (c *BoundedCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*boundedEntry[K, V]).value = value
		c.order.MoveToBack(elem)
		return
	}

	for len(c.items) >= c.maxSize {
		c.evictOldest()
	}

	c.items[key] = c.order.PushBack(&boundedEntry[K, V]{key: key, value: value})
}

// evictOldest must be called with mu held.
func (c *BoundedCache[K, V]) evictOldest() {
	front := c.order.Front()
	if front == nil {
		return
	}
	entry := front.Value.(*boundedEntry[K, V])
	c.order.Remove(front)
	delete(c.items, entry.key)
	c.evictions++
}

func (c *BoundedCache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.order.Remove(elem)
	delete(c.items, key)
	return true
}

// Len returns current cache size
func (c *BoundedCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cap returns the configured capacity
func (c *BoundedCache[K, V]) Cap() int {
	return c.maxSize
}

// Evictions returns how many entries were dropped for capacity.
func (c *BoundedCache[K, V]) Evictions() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.evictions
}

// Range visits entries from oldest to newest until f returns false.
func (c *BoundedCache[K, V]) Range(f func(key K, value V) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for elem := c.order.Front(); elem != nil; elem = elem.Next() {
		entry := elem.Value.(*boundedEntry[K, V])
		if !f(entry.key, entry.value) {
			return
		}
	}
}

// Clear removes all entries from the cache
func (c *BoundedCache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[K]*list.Element, c.maxSize)
	c.order.Init()
}
