// Package source holds doctree.Fetcher implementations and decorators around them.
package source

import (
	"context"
	"fmt"

	"github.com/sharedcode/doctree"
)

// FetcherFunc adapts a function to doctree.Fetcher.
type FetcherFunc func(ctx context.Context, address string) (doctree.Document, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	return f(ctx, address)
}

// Decode unmarshals a JSON document read from address.
func Decode(address string, data []byte) (doctree.Document, error) {
	var doc doctree.Document
	if err := doctree.DefaultMarshaler.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", address, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("decoding %s: document is not a JSON object", address)
	}
	return doc, nil
}
