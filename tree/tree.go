// Package tree turns path-like navigation requests into lazy loads over a node graph backed
// by a doctree.Fetcher.
package tree

import (
	"context"
	"fmt"
	log "log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/node"
)

// Options configures a Tree.
type Options struct {
	// SourcePrefix and SourceSuffix turn a node path into an address:
	// prefix + join(path, "/") + suffix.
	SourcePrefix string
	SourceSuffix string
	// HomeAddress is the path used for the root's address, defaults to "home".
	HomeAddress string
	// MergeFunc is set on the root and combines colliding content on merges.
	MergeFunc node.MergeFunc
}

// Tree holds a root node, the current navigation position and the fetch policy.
// All node access goes through the Tree's lock; fetches run outside of it.
type Tree struct {
	mu      sync.RWMutex
	root    *node.Node
	navSpot *node.Node
	fetcher doctree.Fetcher
	opts    Options

	loads singleflight.Group
	// settled holds the outcome of the last finished load per node.
	settled map[doctree.UUID]error

	background sync.WaitGroup
}

// New creates a Tree with an empty root. The root is never reassigned.
func New(fetcher doctree.Fetcher, opts Options) *Tree {
	if opts.HomeAddress == "" {
		opts.HomeAddress = node.HomeKey
	}
	root := node.New(nil, opts.MergeFunc)
	return &Tree{
		root:    root,
		navSpot: root,
		fetcher: fetcher,
		opts:    opts,
		settled: make(map[doctree.UUID]error),
	}
}

// Root returns the tree's root node.
func (t *Tree) Root() *node.Node {
	return t.root
}

// NavSpot returns the current navigation position.
func (t *Tree) NavSpot() *node.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.navSpot
}

// SetNavSpot moves the current navigation position.
func (t *Tree) SetNavSpot(n *node.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.navSpot = n
}

// Init loads the root, resolves its child startKey, moves the nav spot there and loads it.
// It returns the root.
func (t *Tree) Init(ctx context.Context, startKey string) (*node.Node, error) {
	if err := t.Load(ctx, t.root); err != nil {
		return nil, doctree.NewError(doctree.InitializationFailed, err, "root")
	}
	start, err := t.ResolveChild(ctx, t.root, startKey)
	if err != nil {
		return nil, doctree.NewError(doctree.InitializationFailed, err, startKey)
	}
	t.SetNavSpot(start)
	if err := t.Load(ctx, start); err != nil {
		return nil, doctree.NewError(doctree.InitializationFailed, err, startKey)
	}
	log.Debug("tree initialized", "navSpot", start.Key())
	return t.root, nil
}

// Address returns the fetch address of n.
func (t *Tree) Address(n *node.Node) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.address(n)
}

func (t *Tree) address(n *node.Node) string {
	if n.IsRoot() {
		return t.opts.SourcePrefix + t.opts.HomeAddress + t.opts.SourceSuffix
	}
	return t.opts.SourcePrefix + strings.Join(n.PathTo(), "/") + t.opts.SourceSuffix
}

// Lookup walks path from the root through nodes already in memory, without loading.
func (t *Tree) Lookup(path ...string) (*node.Node, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c := t.root
	for _, k := range path {
		next, err := c.Child(k)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return nil, doctree.NewError(doctree.ChildNotFound, nil, fmt.Sprintf("%s isn't a child of %s", k, c.Key()))
		}
		c = next
	}
	return c, nil
}

// Ancestry returns the nodes from the root down to n, inclusive.
func (t *Tree) Ancestry(n *node.Node) []*node.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.Ancestry()
}

// Wait blocks until all background loads started by Navigate have finished.
func (t *Tree) Wait() {
	t.background.Wait()
}

// View is a read-only snapshot of a node, taken under the Tree's lock.
type View struct {
	Key         string         `json:"key"`
	Level       int            `json:"level"`
	Path        []string       `json:"path"`
	Content     any            `json:"content,omitempty"`
	Properties  map[string]any `json:"properties,omitempty"`
	Children    []string       `json:"children"`
	ChildCount  int            `json:"childCount"`
	FullyLoaded bool           `json:"fullyLoaded"`
}

// Snapshot returns a View of n.
func (t *Tree) Snapshot(n *node.Node) View {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return View{
		Key:         n.Key(),
		Level:       n.Level(),
		Path:        n.PathTo(),
		Content:     n.Content(),
		Properties:  n.Properties(),
		Children:    n.ChildKeys(),
		ChildCount:  n.ChildCount(),
		FullyLoaded: n.FullyLoaded(),
	}
}
