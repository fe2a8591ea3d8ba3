package cassandra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gocql/gocql"

	"github.com/sharedcode/doctree"
)

func TestConfigDefaults(t *testing.T) {
	cfg := ConfigFromOptions(doctree.CassandraConfig{ClusterHosts: []string{"localhost:9042"}})
	if err := cfg.setDefaults(); err != nil {
		t.Fatalf("setDefaults failed, err: %v", err)
	}
	if cfg.Keyspace != "doctree" || cfg.Table != "documents" || cfg.Consistency != gocql.LocalQuorum {
		t.Errorf("unexpected defaults %+v", cfg)
	}

	bad := Config{Keyspace: "doctree", Table: "documents; DROP TABLE x"}
	if err := bad.setDefaults(); err == nil {
		t.Errorf("expected error on invalid table name")
	}
}

func TestSelectStatement(t *testing.T) {
	s := NewSource(&Connection{Config: Config{Keyspace: "doctree", Table: "documents"}})
	want := "SELECT document FROM doctree.documents WHERE address = ?;"
	if got := s.selectStatement(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

// TestSource needs a Cassandra node on localhost:9042 and skips otherwise.
func TestSource(t *testing.T) {
	conn, err := OpenConnection(Config{
		ClusterHosts:      []string{"localhost:9042"},
		Keyspace:          "doctree_test",
		Consistency:       gocql.One,
		ConnectionTimeout: 2 * time.Second,
	})
	if err != nil {
		t.Skipf("cassandra not reachable: %v", err)
	}
	defer conn.Close()

	s := NewSource(conn)
	ctx := context.Background()
	if err := s.Put(ctx, "json/home.json", doctree.Document{"esv": map[string]any{"title": "ESV"}}); err != nil {
		t.Fatalf("Put failed, err: %v", err)
	}
	doc, err := s.Fetch(ctx, "json/home.json")
	if err != nil {
		t.Fatalf("Fetch failed, err: %v", err)
	}
	if esv, ok := doc["esv"].(map[string]any); !ok || esv["title"] != "ESV" {
		t.Errorf("unexpected document %v", doc)
	}
	if _, err := s.Fetch(ctx, "json/missing.json"); !errors.Is(err, doctree.ErrDocumentNotFound) {
		t.Errorf("got %v, want ErrDocumentNotFound", err)
	}
}
