package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sharedcode/doctree"
)

func set(c Cache[int, string], keys ...int) {
	items := make([]doctree.KeyValuePair[int, string], len(keys))
	for i, k := range keys {
		items[i] = doctree.KeyValuePair[int, string]{Key: k, Value: fmt.Sprintf("v%d", k)}
	}
	c.Set(items)
}

func TestMRU_Eviction(t *testing.T) {
	c := NewCache[int, string](2, 4)
	set(c, 1, 2, 3, 4)
	if c.Count() != 4 {
		t.Fatalf("got %d items, want 4", c.Count())
	}
	// 1 becomes the most recently used.
	c.Get([]int{1})
	set(c, 5)

	if c.Count() != 2 {
		t.Fatalf("got %d items after eviction, want 2", c.Count())
	}
	got := c.Get([]int{1, 2, 3, 4, 5})
	want := []string{"v1", "", "", "", "v5"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestMRU_UpdateAndDelete(t *testing.T) {
	c := NewCache[int, string](1, 3)
	set(c, 1, 2)
	c.Set([]doctree.KeyValuePair[int, string]{{Key: 1, Value: "updated"}})
	if v, ok := c.Find(1); !ok || v != "updated" {
		t.Errorf("got %q, %v", v, ok)
	}
	if c.Count() != 2 {
		t.Errorf("update should not add an entry, got %d", c.Count())
	}
	if !c.Delete([]int{2}) {
		t.Errorf("Delete of a present key should report true")
	}
	if c.Delete([]int{1, 9}) {
		t.Errorf("Delete with a missing key should report false")
	}
	if c.Count() != 0 {
		t.Errorf("got %d, want empty", c.Count())
	}
	set(c, 7)
	c.Clear()
	if _, ok := c.Find(7); ok {
		t.Errorf("Clear left entries behind")
	}
}

func TestDocumentCache(t *testing.T) {
	ctx := context.Background()
	c := NewDocumentCache(10)
	doc := doctree.Document{"genesis": map[string]any{"title": "Genesis"}}

	if err := c.SetStruct(ctx, "json/esv.json", doc, time.Hour); err != nil {
		t.Fatalf("SetStruct failed, err: %v", err)
	}
	var got doctree.Document
	found, err := c.GetStruct(ctx, "json/esv.json", &got)
	if err != nil || !found {
		t.Fatalf("GetStruct got %v, %v", found, err)
	}
	if diff := cmp.Diff(doc, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Readers get their own copy.
	got["genesis"].(map[string]any)["title"] = "changed"
	var again doctree.Document
	c.GetStruct(ctx, "json/esv.json", &again)
	if again["genesis"].(map[string]any)["title"] != "Genesis" {
		t.Errorf("cached value was mutated through a reader")
	}

	if found, _ := c.GetStruct(ctx, "json/kjv.json", &got); found {
		t.Errorf("expected miss")
	}
}

func TestDocumentCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewDocumentCache(10)

	c.SetStruct(ctx, "skip", "x", -1)
	c.SetStruct(ctx, "short", "x", time.Millisecond)
	c.SetStruct(ctx, "forever", "x", 0)
	if c.Count() != 2 {
		t.Fatalf("negative expiration must not cache, got %d entries", c.Count())
	}
	time.Sleep(5 * time.Millisecond)

	var s string
	if found, _ := c.GetStruct(ctx, "short", &s); found {
		t.Errorf("expired entry returned")
	}
	if found, _ := c.GetStruct(ctx, "forever", &s); !found || s != "x" {
		t.Errorf("entry without expiry missing")
	}
	if ok, _ := c.Delete(ctx, []string{"forever"}); !ok {
		t.Errorf("Delete should find the key")
	}
	if c.Clear(ctx) != nil || c.Count() != 0 {
		t.Errorf("Clear failed")
	}
}
