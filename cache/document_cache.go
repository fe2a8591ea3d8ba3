package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sharedcode/doctree"
)

type item struct {
	data       []byte
	expiration time.Time
}

func (it item) expired(now time.Time) bool {
	return !it.expiration.IsZero() && now.After(it.expiration)
}

// DocumentCache is a doctree.Cache kept in process memory. Values are stored marshaled,
// so readers never share maps with the writer.
type DocumentCache struct {
	mu        sync.Mutex
	mru       Cache[string, item]
	marshaler doctree.Marshaler
}

// NewDocumentCache returns a DocumentCache holding up to capacity entries. When full, the
// least recently used tenth is evicted.
func NewDocumentCache(capacity int) *DocumentCache {
	if capacity < 1 {
		capacity = 1
	}
	return &DocumentCache{
		mru:       NewCache[string, item](capacity-capacity/10, capacity),
		marshaler: doctree.DefaultMarshaler,
	}
}

func (c *DocumentCache) SetStruct(ctx context.Context, key string, value any, expiration time.Duration) error {
	if expiration < 0 {
		return nil
	}
	data, err := c.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	var exp time.Time
	if expiration > 0 {
		exp = time.Now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.mru.Set([]doctree.KeyValuePair[string, item]{{Key: key, Value: item{data: data, expiration: exp}}})
	return nil
}

func (c *DocumentCache) GetStruct(ctx context.Context, key string, target any) (bool, error) {
	c.mu.Lock()
	it, ok := c.mru.Find(key)
	if ok && it.expired(time.Now()) {
		c.mru.Delete([]string{key})
		ok = false
	}
	c.mu.Unlock()

	if !ok {
		return false, nil
	}
	if err := c.marshaler.Unmarshal(it.data, target); err != nil {
		return false, err
	}
	return true, nil
}

func (c *DocumentCache) Delete(ctx context.Context, keys []string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mru.Delete(keys), nil
}

func (c *DocumentCache) Ping(ctx context.Context) error {
	return nil
}

func (c *DocumentCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mru.Clear()
	return nil
}

// Count returns the number of cached entries, expired ones included.
func (c *DocumentCache) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mru.Count()
}
