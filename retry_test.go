package doctree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/sethvargo/go-retry"
)

func TestRetry(t *testing.T) {
	ctx := context.Background()
	calls := 0
	err := Retry(ctx, 3, time.Millisecond, func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return retry.RetryableError(errors.New("flaky"))
		}
		return nil
	}, nil)
	if err != nil {
		t.Fatalf("Retry failed, err: %v", err)
	}
	if calls != 3 {
		t.Errorf("got %d calls, want 3", calls)
	}
}

func TestRetry_GivesUp(t *testing.T) {
	ctx := context.Background()
	calls := 0
	gaveUp := false
	err := Retry(ctx, 2, time.Millisecond, func(ctx context.Context) error {
		calls++
		return retry.RetryableError(errors.New("down"))
	}, func(ctx context.Context) { gaveUp = true })
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 3 || !gaveUp {
		t.Errorf("got %d calls, gaveUp %v, want 3 calls and gave up", calls, gaveUp)
	}

	// Non retryable errors return on first failure.
	calls = 0
	Retry(ctx, 5, time.Millisecond, func(ctx context.Context) error {
		calls++
		return os.ErrNotExist
	}, nil)
	if calls != 1 {
		t.Errorf("got %d calls, want 1", calls)
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), false},
		{"not exist", fmt.Errorf("open: %w", os.ErrNotExist), false},
		{"permission", os.ErrPermission, false},
		{"not found", fmt.Errorf("esv: %w", ErrDocumentNotFound), false},
		{"transient", errors.New("connection reset"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRetry(tt.err); got != tt.want {
				t.Errorf("ShouldRetry(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
