package source

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/sharedcode/doctree"
)

type retrying struct {
	next       doctree.Fetcher
	maxRetries uint64
	base       time.Duration
}

// WithRetry retries failed fetches of next with Fibonacci backoff starting at base.
// Errors doctree.ShouldRetry rejects, e.g. a missing document, are returned right away.
func WithRetry(next doctree.Fetcher, maxRetries uint64, base time.Duration) doctree.Fetcher {
	if maxRetries == 0 {
		return next
	}
	return &retrying{next: next, maxRetries: maxRetries, base: base}
}

func (r *retrying) Fetch(ctx context.Context, address string) (doctree.Document, error) {
	var doc doctree.Document
	err := doctree.Retry(ctx, r.maxRetries, r.base, func(ctx context.Context) error {
		var err error
		doc, err = r.next.Fetch(ctx, address)
		if doctree.ShouldRetry(err) {
			return retry.RetryableError(err)
		}
		return err
	}, nil)
	if err != nil {
		return nil, err
	}
	return doc, nil
}
