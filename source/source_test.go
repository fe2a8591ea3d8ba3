package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/cache"
)

const homeJSON = `{"esv": {"title": "ESV", "needsChildren": 3}}`

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	fn := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(fn), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(fn, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "json/home.json", homeJSON)
	writeFile(t, dir, "json/broken.json", `[1, 2]`)
	f := NewFile(dir)
	ctx := context.Background()

	doc, err := f.Fetch(ctx, "json/home.json")
	if err != nil {
		t.Fatalf("Fetch failed, err: %v", err)
	}
	want := doctree.Document{"esv": map[string]any{"title": "ESV", "needsChildren": 3.0}}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := f.Fetch(ctx, "json/esv.json"); !errors.Is(err, doctree.ErrDocumentNotFound) {
		t.Errorf("got %v, want ErrDocumentNotFound", err)
	}
	if _, err := f.Fetch(ctx, "json/broken.json"); err == nil {
		t.Errorf("expected decode error on a non object document")
	}
	if _, err := f.Fetch(ctx, "../etc/passwd"); err == nil {
		t.Errorf("expected error on an address outside the directory")
	}
}

func TestHTTP(t *testing.T) {
	var mu sync.Mutex
	hits := map[string]int{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		hits[r.URL.Path]++
		n := hits[r.URL.Path]
		mu.Unlock()
		switch r.URL.Path {
		case "/json/home.json":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(homeJSON))
		case "/json/flaky.json":
			if n == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			w.Write([]byte(`{"ok": true}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	h := NewHTTP(srv.URL+"/", 2)
	ctx := context.Background()

	doc, err := h.Fetch(ctx, "json/home.json")
	if err != nil {
		t.Fatalf("Fetch failed, err: %v", err)
	}
	if _, ok := doc["esv"]; !ok {
		t.Errorf("unexpected document %v", doc)
	}
	if _, err := h.Fetch(ctx, "json/kjv.json"); !errors.Is(err, doctree.ErrDocumentNotFound) {
		t.Errorf("got %v, want ErrDocumentNotFound", err)
	}
	if _, err := h.Fetch(ctx, "json/flaky.json"); err != nil {
		t.Errorf("a 503 should be retried, got err: %v", err)
	}
	mu.Lock()
	defer mu.Unlock()
	if hits["/json/kjv.json"] != 1 {
		t.Errorf("a 404 must not be retried, got %d requests", hits["/json/kjv.json"])
	}
}

func TestWithRetry(t *testing.T) {
	calls := 0
	flaky := FetcherFunc(func(ctx context.Context, address string) (doctree.Document, error) {
		calls++
		if calls < 3 {
			return nil, errors.New("connection reset")
		}
		return doctree.Document{"address": address}, nil
	})
	doc, err := WithRetry(flaky, 3, time.Millisecond).Fetch(context.Background(), "json/home.json")
	if err != nil {
		t.Fatalf("Fetch failed, err: %v", err)
	}
	if doc["address"] != "json/home.json" || calls != 3 {
		t.Errorf("got %v after %d calls", doc, calls)
	}

	calls = 0
	missing := FetcherFunc(func(ctx context.Context, address string) (doctree.Document, error) {
		calls++
		return nil, doctree.ErrDocumentNotFound
	})
	_, err = WithRetry(missing, 3, time.Millisecond).Fetch(context.Background(), "json/kjv.json")
	if !errors.Is(err, doctree.ErrDocumentNotFound) {
		t.Errorf("got %v, want ErrDocumentNotFound", err)
	}
	if calls != 1 {
		t.Errorf("a missing document must not be retried, got %d calls", calls)
	}
}

func TestCached(t *testing.T) {
	calls := 0
	next := FetcherFunc(func(ctx context.Context, address string) (doctree.Document, error) {
		calls++
		if address == "json/kjv.json" {
			return nil, doctree.ErrDocumentNotFound
		}
		return doctree.Document{"title": "ESV"}, nil
	})
	c := cache.NewDocumentCache(10)
	f := Cached(next, c, time.Hour)
	ctx := context.Background()

	for range 3 {
		doc, err := f.Fetch(ctx, "json/esv.json")
		if err != nil {
			t.Fatalf("Fetch failed, err: %v", err)
		}
		if doc["title"] != "ESV" {
			t.Errorf("unexpected document %v", doc)
		}
	}
	if calls != 1 {
		t.Errorf("got %d fetches, want 1", calls)
	}

	// Failures are not cached.
	f.Fetch(ctx, "json/kjv.json")
	f.Fetch(ctx, "json/kjv.json")
	if calls != 3 {
		t.Errorf("got %d fetches, want 3", calls)
	}

	c.Delete(ctx, []string{CacheKey("json/esv.json")})
	f.Fetch(ctx, "json/esv.json")
	if calls != 4 {
		t.Errorf("evicted document should be fetched again, got %d fetches", calls)
	}
}
