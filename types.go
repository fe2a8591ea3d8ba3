package doctree

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"
)

// Document is a hierarchical document returned by a fetch source: a mapping from string
// keys to scalars, nested Documents (map[string]any) or, for the "content" field, an
// opaque payload.
type Document = map[string]any

// ErrDocumentNotFound is returned by sources when no document exists at an address.
var ErrDocumentNotFound = errors.New("document not found")

// Fetcher retrieves the Document stored at an address.
type Fetcher interface {
	Fetch(ctx context.Context, address string) (Document, error)
}

// Cache specifies the methods a document cache backend implements.
// String key and any (JSON-marshalable) value are the supported types.
type Cache interface {
	// SetStruct stores value under key. No caching happens if expiration < 0,
	// zero expiration means no expiry.
	SetStruct(ctx context.Context, key string, value any, expiration time.Duration) error
	// GetStruct reads key into target, returns false if key is not found.
	GetStruct(ctx context.Context, key string, target any) (bool, error)
	// Delete removes keys, returns false if any of the keys was not found.
	Delete(ctx context.Context, keys []string) (bool, error)
	Ping(ctx context.Context) error
	// Clear removes all entries. Be cautious, on Redis this flushes the DB.
	Clear(ctx context.Context) error
}

// IsDocument reports whether v is a nested structure, i.e. something that becomes a child
// node rather than a scalar attribute when ingested.
func IsDocument(v any) bool {
	_, ok := v.(map[string]any)
	return ok
}

// ToInt converts JSON-ish numeric values, including numeric strings such as "2", to int.
// Booleans count as 0 and 1. The second return is false when v is not numeric.
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return int(f), true
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case uint:
		return int(n), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return int(n), true
	case uint64:
		return int(n), true
	case float32:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

// IsTruthy mirrors how declared flags in documents are read: false, nil, zero numbers and
// empty strings are false, everything else is true.
func IsTruthy(v any) bool {
	switch b := v.(type) {
	case nil:
		return false
	case bool:
		return b
	case string:
		return b != ""
	}
	if n, ok := ToInt(v); ok {
		return n != 0
	}
	return true
}
