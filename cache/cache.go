// Package cache contains the in-process MRU cache used to keep fetched documents close to
// the tree, and a doctree.Cache implementation on top of it.
package cache

import "github.com/sharedcode/doctree"

// Cache is a generic MRU cache. Implementations are not safe for concurrent use.
type Cache[TK comparable, TV any] interface {
	// Clear removes all entries from the cache.
	Clear()
	// Set inserts or updates the given key/value pairs, then evicts if over capacity.
	Set(items []doctree.KeyValuePair[TK, TV])
	// Get looks up the values for the given keys; missing keys yield zero values.
	// Found keys become the most recently used.
	Get(keys []TK) []TV
	// Find returns the value of key and whether it was present.
	Find(key TK) (TV, bool)
	Delete(keys []TK) bool
	Count() int
}

type entry[TK, TV any] struct {
	value TV
	elem  *element[TK]
}

type mruCache[TK comparable, TV any] struct {
	lookup map[TK]*entry[TK, TV]
	mru    *mru[TK]
}

// NewCache creates an MRU cache. Once it holds more than maxCapacity items, the least
// recently used ones are evicted until minCapacity remain.
func NewCache[TK comparable, TV any](minCapacity, maxCapacity int) Cache[TK, TV] {
	if maxCapacity < 1 {
		maxCapacity = 1
	}
	if minCapacity < 0 || minCapacity > maxCapacity {
		minCapacity = maxCapacity
	}
	return &mruCache[TK, TV]{
		lookup: make(map[TK]*entry[TK, TV]),
		mru:    newMru[TK](minCapacity, maxCapacity),
	}
}

func (c *mruCache[TK, TV]) Clear() {
	c.lookup = make(map[TK]*entry[TK, TV])
	c.mru = newMru[TK](c.mru.minCapacity, c.mru.maxCapacity)
}

func (c *mruCache[TK, TV]) Set(items []doctree.KeyValuePair[TK, TV]) {
	for _, it := range items {
		if e, ok := c.lookup[it.Key]; ok {
			e.value = it.Value
			c.mru.touch(e.elem)
			continue
		}
		c.lookup[it.Key] = &entry[TK, TV]{value: it.Value, elem: c.mru.add(it.Key)}
	}
	for _, k := range c.mru.evict() {
		delete(c.lookup, k)
	}
}

func (c *mruCache[TK, TV]) Get(keys []TK) []TV {
	r := make([]TV, len(keys))
	for i, k := range keys {
		r[i], _ = c.Find(k)
	}
	return r
}

func (c *mruCache[TK, TV]) Find(key TK) (TV, bool) {
	e, ok := c.lookup[key]
	if !ok {
		var zero TV
		return zero, false
	}
	c.mru.touch(e.elem)
	return e.value, true
}

// Delete removes keys, returns false if any of them was not present.
func (c *mruCache[TK, TV]) Delete(keys []TK) bool {
	all := true
	for _, k := range keys {
		e, ok := c.lookup[k]
		if !ok {
			all = false
			continue
		}
		c.mru.remove(e.elem)
		delete(c.lookup, k)
	}
	return all
}

func (c *mruCache[TK, TV]) Count() int {
	return len(c.lookup)
}
