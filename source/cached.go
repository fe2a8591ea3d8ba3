package source

import (
	"context"
	log "log/slog"
	"time"

	"github.com/sharedcode/doctree"
)

const cacheKeyPrefix = "doctree:doc:"

type cached struct {
	next   doctree.Fetcher
	cache  doctree.Cache
	expiry time.Duration
}

// Cached serves fetches of next out of c, storing each fetched document for expiry.
// Cache failures are logged and fall through to next.
func Cached(next doctree.Fetcher, c doctree.Cache, expiry time.Duration) doctree.Fetcher {
	if c == nil {
		return next
	}
	return &cached{next: next, cache: c, expiry: expiry}
}

// CacheKey returns the key a document fetched from address is cached under.
func CacheKey(address string) string {
	return cacheKeyPrefix + address
}

func (c *cached) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	key := CacheKey(address)
	var doc doctree.Document
	found, err := c.cache.GetStruct(ctx, key, &doc)
	if err != nil {
		log.Warn("document cache get failed", "key", key, "error", err)
	}
	if found && doc != nil {
		log.Debug("document cache hit", "key", key)
		return doc, nil
	}

	doc, err = c.next.Fetch(ctx, address)
	if err != nil {
		return nil, err
	}
	if err := c.cache.SetStruct(ctx, key, doc, c.expiry); err != nil {
		log.Warn("document cache set failed", "key", key, "error", err)
	}
	return doc, nil
}
