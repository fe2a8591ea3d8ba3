package navexpr

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/node"
	"github.com/sharedcode/doctree/tree"
)

// bible builds home > esv > genesis > 3 and returns the chapter.
func bible(t *testing.T) *node.Node {
	t.Helper()
	n := node.New(nil, nil)
	for _, k := range []string{"esv", "genesis", "3"} {
		var err error
		if n, err = n.NewChild(k, nil, false); err != nil {
			t.Fatal(err)
		}
	}
	return n
}

func TestParse(t *testing.T) {
	chapter := bible(t)
	ancestry := chapter.Ancestry()
	p := NewParser()

	tests := []struct {
		name     string
		query    string
		wantRoot *node.Node
		wantPath tree.Path
	}{
		{
			name:     "absolute",
			query:    "(ESV) Genesis 3",
			wantRoot: ancestry[0],
			wantPath: tree.Path{"ESV": tree.Path{"Genesis": tree.Path{"3": tree.Endpoint(true)}}},
		},
		{
			name:     "translation only",
			query:    "  (kjv) ",
			wantRoot: ancestry[0],
			wantPath: tree.Path{"kjv": tree.Endpoint(true)},
		},
		{
			name:     "book in current translation",
			query:    "Exodus 20",
			wantRoot: ancestry[1],
			wantPath: tree.Path{"Exodus": tree.Path{"20": tree.Endpoint(true)}},
		},
		{
			name:     "numbered book",
			query:    "1 John 4",
			wantRoot: ancestry[1],
			wantPath: tree.Path{"1 John": tree.Path{"4": tree.Endpoint(true)}},
		},
		{
			name:     "chapter in current book",
			query:    "4",
			wantRoot: ancestry[2],
			wantPath: tree.Path{"4": tree.Endpoint(true)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.query, ancestry)
			if err != nil {
				t.Fatalf("Parse(%q) failed, err: %v", tt.query, err)
			}
			if got.Root != tt.wantRoot {
				t.Errorf("got root %s, want %s", got.Root.Key(), tt.wantRoot.Key())
			}
			if diff := cmp.Diff(tt.wantPath, got.Path); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	p := NewParser()
	chapter := bible(t)

	if _, err := p.Parse("   ", chapter.Ancestry()); !errors.Is(err, ErrEmptyQuery) {
		t.Errorf("got %v, want ErrEmptyQuery", err)
	}

	_, err := p.Parse("(ESV) Genesis three!", chapter.Ancestry())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("got %v, want a ParseError", err)
	}
	if !strings.HasSuffix(pe.Text, "valid chapter number.") {
		t.Errorf("unexpected message %q", pe.Text)
	}
	if doctree.CodeOf(err) != doctree.InvalidArgument {
		t.Errorf("got code %d, want InvalidArgument", doctree.CodeOf(err))
	}

	// A book makes no sense while standing on the root.
	root := chapter.Root()
	_, err = p.Parse("Genesis 3", root.Ancestry())
	if !errors.As(err, &pe) || !strings.HasSuffix(pe.Text, couldNotParse) {
		t.Errorf("got %v, want could not parse", err)
	}
	if _, err := p.Parse("(ESV) Genesis 3:16", chapter.Ancestry()); err == nil {
		t.Errorf("expected error on trailing input past the last level")
	}
}

func TestLocationTag(t *testing.T) {
	p := NewParser()
	tests := []struct {
		view tree.View
		want string
	}{
		{tree.View{Key: "esv", Level: 1, Properties: map[string]any{"title": "ESV"}}, "ESV"},
		{tree.View{Key: "3", Level: 3, Properties: map[string]any{"title": "3"}}, "Chapter 3"},
		{tree.View{Key: "home", Level: 0}, "home"},
	}
	for _, tt := range tests {
		if got := p.LocationTag(tt.view); got != tt.want {
			t.Errorf("LocationTag(%s) = %q, want %q", tt.view.Key, got, tt.want)
		}
	}
}
