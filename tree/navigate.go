package tree

import (
	"context"
	"fmt"
	log "log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/node"
)

// Hop is a value of a navigation Path: either an Endpoint or a nested Path.
type Hop interface {
	isHop()
}

// Endpoint terminates a Path branch. Endpoint(true) is the node to navigate to,
// Endpoint(false) is a node that is only resolved and loaded.
type Endpoint bool

func (Endpoint) isHop() {}

// Path maps child keys to the next Hop.
type Path map[string]Hop

func (Path) isHop() {}

// HasDestination reports whether some branch of p ends in Endpoint(true).
func (p Path) HasDestination() bool {
	for _, h := range p {
		switch v := h.(type) {
		case Endpoint:
			if v {
				return true
			}
		case Path:
			if v.HasDestination() {
				return true
			}
		}
	}
	return false
}

// Destination describes where Navigate should end up, relative to Root.
type Destination struct {
	Root *node.Node
	Path Path
}

// Navigate resolves the branches of dest that lead to an Endpoint(true) (sibling branches
// concurrently), moves the nav spot to that node and, if loadTarget, starts loading it
// without waiting. Branches without an Endpoint(true) are resolved and loaded in the
// background; their failures are only logged. If several branches end in Endpoint(true)
// the first in key order wins.
// A Path without any Endpoint(true) fails with NoDestination before any I/O.
func (t *Tree) Navigate(ctx context.Context, dest Destination, loadTarget bool) (*node.Node, error) {
	if dest.Root == nil {
		return nil, doctree.NewError(doctree.InvalidArgument, nil, "destination has no root")
	}
	if !dest.Path.HasDestination() {
		return nil, doctree.NewError(doctree.NoDestination, nil, dest.Path)
	}
	target, err := t.navigate(ctx, dest.Root, dest.Path)
	if err != nil {
		return nil, err
	}
	t.SetNavSpot(target)
	if loadTarget {
		t.loadInBackground(ctx, target)
	}
	return target, nil
}

func (t *Tree) navigate(ctx context.Context, from *node.Node, p Path) (*node.Node, error) {
	keys := make([]string, 0, len(p))
	for k, h := range p {
		if leadsToDestination(h) {
			keys = append(keys, k)
			continue
		}
		t.prefetchInBackground(ctx, from, k, h)
	}
	sort.Strings(keys)

	found := make([]*node.Node, len(keys))
	eg, ectx := errgroup.WithContext(ctx)
	for i, k := range keys {
		eg.Go(func() error {
			child, err := t.ResolveChild(ectx, from, k)
			if err != nil {
				return err
			}
			if sub, ok := p[k].(Path); ok {
				found[i], err = t.navigate(ectx, child, sub)
				return err
			}
			found[i] = child
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	for _, n := range found {
		if n != nil {
			return n, nil
		}
	}
	return nil, doctree.NewError(doctree.NoDestination, nil, p)
}

func leadsToDestination(h Hop) bool {
	switch v := h.(type) {
	case Endpoint:
		return bool(v)
	case Path:
		return v.HasDestination()
	}
	return false
}

// prefetchInBackground resolves and loads a branch that holds no Endpoint(true).
func (t *Tree) prefetchInBackground(ctx context.Context, from *node.Node, key string, h Hop) {
	t.background.Add(1)
	go func() {
		defer t.background.Done()
		if err := t.prefetch(context.WithoutCancel(ctx), from, key, h); err != nil {
			log.Warn("prefetching branch failed", "key", key, "error", err)
		}
	}()
}

func (t *Tree) prefetch(ctx context.Context, from *node.Node, key string, h Hop) error {
	child, err := t.ResolveChild(ctx, from, key)
	if err != nil {
		return err
	}
	sub, ok := h.(Path)
	if !ok {
		return t.Load(ctx, child)
	}
	for k, next := range sub {
		if err := t.prefetch(ctx, child, k, next); err != nil {
			log.Warn("prefetching branch failed", "key", k, "error", err)
		}
	}
	return nil
}

// ResolveChild finds current's child at key, loading as needed. If the child is not in
// memory, current is loaded, then its parent, and so on up to the root, re-checking current
// after each load settles. A failed ancestor load only means the walk goes one level up;
// a node whose load already settled is not fetched again. Fails with ChildNotFound once the
// root was tried.
func (t *Tree) ResolveChild(ctx context.Context, current *node.Node, key string) (*node.Node, error) {
	if key == "" {
		return nil, doctree.NewError(doctree.InvalidKey, nil, "resolve child with empty key")
	}
	if c := t.child(current, key); c != nil {
		return c, nil
	}
	for a := current; a != nil; a = t.parent(a) {
		if err := t.awaitLoad(ctx, a); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			log.Debug("ancestor load failed, ascending", "ancestor", a.Key(), "error", err)
		}
		if c := t.child(current, key); c != nil {
			return c, nil
		}
	}
	return nil, doctree.NewError(doctree.ChildNotFound, nil, fmt.Sprintf("%s isn't a child of %s", key, current.Key()))
}

func (t *Tree) child(n *node.Node, key string) *node.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, _ := n.Child(key)
	return c
}

func (t *Tree) parent(n *node.Node) *node.Node {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return n.Parent()
}

// Merge materializes doc into a standalone subtree and grafts it under at's child key,
// merging with whatever is already there.
func (t *Tree) Merge(at *node.Node, key string, doc doctree.Document) (*node.Node, error) {
	sub := Subtree(doc)

	t.mu.Lock()
	defer t.mu.Unlock()
	n, err := at.GraftChild(sub, key, false)
	if err != nil {
		return nil, err
	}
	n.Walk(func(d *node.Node) bool {
		d.SetFullyLoaded(isFullyLoaded(d))
		return true
	})
	return n, nil
}
