// Package node contains the ownership tree of a doctree: keyed children, opaque content,
// the content merge function and cycle-safe grafting of standalone subtrees.
// It does no I/O and is not safe for concurrent mutation; tree.Tree serializes access.
package node

import (
	"sort"
	"strings"

	"github.com/sharedcode/doctree"
)

// HomeKey is the key a root reports for path and display purposes.
const HomeKey = "home"

// MergeFunc combines a node's existing content with incoming content and returns the result.
// It is defined on a root and consulted by all of its descendants.
type MergeFunc func(existing, incoming any) any

// Node is a vertex in the ownership tree.
type Node struct {
	id     doctree.UUID
	key    string
	parent *Node
	// children is keyed by lower-cased key; childCount is maintained alongside it.
	children   map[string]*Node
	childCount int
	content    any
	properties map[string]any
	// mergeFunc is only consulted on roots.
	mergeFunc   MergeFunc
	fullyLoaded bool
}

// New creates a root node holding content. mergeFunc may be nil to use the default
// shallow field overwrite.
func New(content any, mergeFunc MergeFunc) *Node {
	n := newNode(content)
	n.mergeFunc = mergeFunc
	return n
}

func newNode(content any) *Node {
	return &Node{
		id:         doctree.NewUUID(),
		children:   make(map[string]*Node),
		content:    content,
		properties: make(map[string]any),
	}
}

// NormalizeKey lower-cases key; all key comparisons go through it.
func NormalizeKey(key string) string {
	return strings.ToLower(key)
}

// ID returns the node's identity.
func (n *Node) ID() doctree.UUID {
	return n.id
}

// Key returns the node's key under its parent, or HomeKey for a root.
func (n *Node) Key() string {
	if n.parent == nil || n.key == "" {
		return HomeKey
	}
	return n.key
}

// Parent returns the owning node, nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// IsRoot reports whether the node has no parent.
func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Root walks up the parent chain. It is never cached, so re-rooting a subtree
// immediately changes which root (and merge function) applies to it.
func (n *Node) Root() *Node {
	r := n
	for r.parent != nil {
		r = r.parent
	}
	return r
}

// Level is 0 for roots and parent's level + 1 otherwise.
func (n *Node) Level() int {
	level := 0
	for p := n.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

// ChildCount returns the maintained number of children.
func (n *Node) ChildCount() int {
	return n.childCount
}

// Content returns the node's content payload.
func (n *Node) Content() any {
	return n.content
}

// SetContent replaces the node's content payload.
func (n *Node) SetContent(content any) {
	n.content = content
}

// Property returns a scalar attribute ingested from a document.
func (n *Node) Property(name string) (any, bool) {
	v, ok := n.properties[NormalizeKey(name)]
	return v, ok
}

// SetProperty assigns a scalar attribute.
func (n *Node) SetProperty(name string, value any) {
	n.properties[NormalizeKey(name)] = value
}

// Properties returns a copy of the node's attributes.
func (n *Node) Properties() map[string]any {
	r := make(map[string]any, len(n.properties))
	for k, v := range n.properties {
		r[k] = v
	}
	return r
}

// SetMergeFunc sets the merge function. Only a root's merge function is ever consulted.
func (n *Node) SetMergeFunc(f MergeFunc) {
	n.mergeFunc = f
}

// FullyLoaded reports the flag maintained by document ingestion.
func (n *Node) FullyLoaded() bool {
	return n.fullyLoaded
}

// SetFullyLoaded is called by document ingestion, not by Node itself.
func (n *Node) SetFullyLoaded(loaded bool) {
	n.fullyLoaded = loaded
}

// Child returns the child at key, or nil if there is none.
func (n *Node) Child(key string) (*Node, error) {
	if key == "" {
		return nil, doctree.NewError(doctree.InvalidKey, nil, "get child with empty key")
	}
	return n.children[NormalizeKey(key)], nil
}

// Children returns the children sorted by key.
func (n *Node) Children() []*Node {
	keys := n.ChildKeys()
	r := make([]*Node, len(keys))
	for i, k := range keys {
		r[i] = n.children[k]
	}
	return r
}

// ChildKeys returns the children's keys in sorted order.
func (n *Node) ChildKeys() []string {
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewChild creates a child holding content under key. If key is taken, nil is returned
// and nothing changes, unless overwrite is set in which case the old child is detached
// (not merged) first.
func (n *Node) NewChild(key string, content any, overwrite bool) (*Node, error) {
	if key == "" {
		return nil, doctree.NewError(doctree.InvalidKey, nil, "new child with empty key")
	}
	key = NormalizeKey(key)
	if _, ok := n.children[key]; ok {
		if !overwrite {
			return nil, nil
		}
		n.RemoveChild(key)
	}
	c := newNode(content)
	n.attach(c, key)
	return c, nil
}

// RemoveChild detaches the child at key; the child becomes a root with no key.
// Returns whether a child existed.
func (n *Node) RemoveChild(key string) bool {
	key = NormalizeKey(key)
	c, ok := n.children[key]
	if !ok {
		return false
	}
	delete(n.children, key)
	n.childCount--
	c.parent = nil
	c.key = ""
	return true
}

// Orphan detaches this node from its parent, if any.
func (n *Node) Orphan() {
	if n.parent == nil {
		return
	}
	n.parent.RemoveChild(n.key)
}

func (n *Node) attach(c *Node, key string) {
	c.parent = n
	c.key = key
	n.children[key] = c
	n.childCount++
}

// PathTo returns the keys from the root down to this node, empty for the root.
func (n *Node) PathTo() []string {
	path := make([]string, n.Level())
	i := len(path) - 1
	for c := n; c.parent != nil; c = c.parent {
		path[i] = c.key
		i--
	}
	return path
}

// Ancestry returns the nodes from the root down to this node, inclusive.
func (n *Node) Ancestry() []*Node {
	r := make([]*Node, n.Level()+1)
	i := len(r) - 1
	for c := n; c != nil; c = c.parent {
		r[i] = c
		i--
	}
	return r
}

// Ancestor returns the ancestor at depth (0 is the root). It only walks upward: nil is
// returned when depth is greater than this node's level.
func (n *Node) Ancestor(depth int) (*Node, error) {
	if depth < 0 {
		return nil, doctree.NewError(doctree.InvalidArgument, nil, depth)
	}
	level := n.Level()
	if depth > level {
		return nil, nil
	}
	c := n
	for ; level > depth; level-- {
		c = c.parent
	}
	return c, nil
}

// HasAncestor reports whether target is this node or one of its ancestors.
func (n *Node) HasAncestor(target *Node) bool {
	for c := n; c != nil; c = c.parent {
		if c == target {
			return true
		}
	}
	return false
}

// Walk visits this node and its descendants in pre-order, children in key order.
// Returning false from fn skips the node's descendants.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}
