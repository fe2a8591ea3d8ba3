package tree

import (
	"context"
	log "log/slog"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/node"
)

// filepathProperty set to an explicit null marks a node that has no backing document.
const filepathProperty = "filepath"

// Load fetches n's document and ingests it. It returns immediately when n is already fully
// loaded or has no backing source. Concurrent loads of the same node share one fetch.
// A started fetch always runs to completion; a cancelled ctx only stops the wait.
func (t *Tree) Load(ctx context.Context, n *node.Node) error {
	ch := t.loads.DoChan(n.ID().String(), func() (any, error) {
		t.mu.RLock()
		done := n.FullyLoaded() || isSourceless(n)
		address := t.address(n)
		t.mu.RUnlock()

		var err error
		if !done {
			err = t.fetchAndIngest(context.WithoutCancel(ctx), n, address)
		}
		t.settle(n, err)
		return nil, err
	})
	select {
	case r := <-ch:
		return r.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Tree) fetchAndIngest(ctx context.Context, n *node.Node, address string) error {
	log.Debug("loading node", "address", address)
	doc, err := t.fetcher.Fetch(ctx, address)
	if err != nil {
		log.Warn("load failed", "address", address, "error", err)
		return doctree.NewError(doctree.FetchFailure, err, address)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	Materialize(n, doc)
	return nil
}

// MarkSourceless flags n as having no backing document, so Load never fetches it.
func (t *Tree) MarkSourceless(n *node.Node) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n.SetProperty(filepathProperty, nil)
}

func isSourceless(n *node.Node) bool {
	v, ok := n.Property(filepathProperty)
	return ok && v == nil
}

func (t *Tree) settle(n *node.Node, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.settled[n.ID()] = err
}

// settledLoad returns the outcome of n's last finished load, false if n never finished one.
func (t *Tree) settledLoad(n *node.Node) (bool, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	err, ok := t.settled[n.ID()]
	return ok, err
}

// awaitLoad joins n's load, reusing a previous outcome rather than fetching again.
func (t *Tree) awaitLoad(ctx context.Context, n *node.Node) error {
	if ok, err := t.settledLoad(n); ok {
		return err
	}
	return t.Load(ctx, n)
}

// loadInBackground starts a load that the caller does not wait for.
func (t *Tree) loadInBackground(ctx context.Context, n *node.Node) {
	t.background.Add(1)
	go func() {
		defer t.background.Done()
		if err := t.Load(context.WithoutCancel(ctx), n); err != nil {
			log.Warn("background load failed", "key", n.Key(), "error", err)
		}
	}()
}
