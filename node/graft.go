package node

import (
	"github.com/sharedcode/doctree"
)

// DefaultMerge is used when the root has no merge function: maps are combined with a
// shallow field overwrite where incoming values win; anything else is replaced by
// incoming unless incoming is nil.
func DefaultMerge(existing, incoming any) any {
	if incoming == nil {
		return existing
	}
	em, ok1 := existing.(map[string]any)
	im, ok2 := incoming.(map[string]any)
	if !ok1 || !ok2 {
		return incoming
	}
	r := make(map[string]any, len(em)+len(im))
	for k, v := range em {
		r[k] = v
	}
	for k, v := range im {
		r[k] = v
	}
	return r
}

// MergeContent computes, but does not store, the result of combining this node's content
// with incoming using the root's merge function.
func (n *Node) MergeContent(incoming any) any {
	if f := n.Root().mergeFunc; f != nil {
		return f(n.content, incoming)
	}
	return DefaultMerge(n.content, incoming)
}

// GraftChild attaches the standalone subtree rooted at child under key.
//
// If key is free, or overwrite is set (the occupant is detached), child is attached as is.
// Otherwise child is merged into the occupant: content through MergeContent, properties
// with child's values winning, and each of child's children grafted recursively into the
// occupant. The donor is consumed by a merge and must not be reused.
//
// Returns the node now at key: child after a direct attach, the occupant after a merge.
func (n *Node) GraftChild(child *Node, key string, overwrite bool) (*Node, error) {
	if child == nil {
		return nil, doctree.NewError(doctree.InvalidArgument, nil, "graft of a nil node")
	}
	if child.parent != nil {
		return nil, doctree.NewError(doctree.InvalidGraft, nil, child.PathTo())
	}
	if key == "" {
		return nil, doctree.NewError(doctree.InvalidKey, nil, "graft with empty key")
	}
	if n.HasAncestor(child) {
		return nil, doctree.NewError(doctree.CycleDetected, nil, n.PathTo())
	}
	key = NormalizeKey(key)

	occupant, ok := n.children[key]
	if !ok {
		n.attach(child, key)
		return child, nil
	}
	if overwrite {
		n.RemoveChild(key)
		n.attach(child, key)
		return child, nil
	}
	if err := occupant.absorb(child); err != nil {
		return nil, err
	}
	return occupant, nil
}

// absorb deep merges the rootless donor into n.
func (n *Node) absorb(donor *Node) error {
	n.content = n.MergeContent(donor.content)
	for k, v := range donor.properties {
		n.properties[k] = v
	}
	for _, c := range donor.Children() {
		k := c.key
		donor.RemoveChild(k)
		if _, err := n.GraftChild(c, k, false); err != nil {
			return err
		}
	}
	return nil
}
