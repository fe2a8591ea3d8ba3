package tree

import (
	"sort"
	"strings"

	"github.com/sharedcode/doctree"
	"github.com/sharedcode/doctree/node"
)

// Declared completeness fields recognized on ingested documents.
const (
	contentField       = "content"
	needsChildrenField = "needschildren"
	needsContentField  = "needscontent"
)

// Materialize ingests doc into n: nested documents become children (existing children are
// reused), everything else becomes a property of n. The "content" field is additionally
// copied onto n's content slot, whichever of the two it becomes. One leading '@' is
// stripped from "@content", "@@content" and so on, which is how a document declares a
// child literally named "content". Keys are lower-cased.
//
// Afterwards every materialized node's fully loaded flag is recomputed: a node is fully
// loaded iff its declared needsChildren (if any) is met, its declared needsContent (if any)
// is satisfied, and it has at least one child or non-empty content.
func Materialize(n *node.Node, doc doctree.Document) {
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	// Deterministic ingestion order when two fields differ only in case.
	sort.Strings(keys)

	for _, rawKey := range keys {
		val := doc[rawKey]
		key := node.NormalizeKey(rawKey)
		if key == "" {
			continue
		}
		if key == contentField {
			n.SetContent(val)
		}
		sub, ok := val.(map[string]any)
		if !ok {
			n.SetProperty(key, val)
			continue
		}
		if strings.HasPrefix(key, "@") && strings.TrimLeft(key, "@") == contentField {
			key = key[1:]
		}
		child, _ := n.Child(key)
		if child == nil {
			child, _ = n.NewChild(key, nil, false)
		}
		Materialize(child, sub)
	}
	n.SetFullyLoaded(isFullyLoaded(n))
}

// Subtree materializes doc into a new standalone root, ready to be grafted.
func Subtree(doc doctree.Document) *node.Node {
	n := node.New(nil, nil)
	Materialize(n, doc)
	return n
}

func isFullyLoaded(n *node.Node) bool {
	allChildren := true
	if v, ok := n.Property(needsChildrenField); ok && doctree.IsTruthy(v) {
		need, ok := doctree.ToInt(v)
		allChildren = ok && n.ChildCount() >= need
	}
	allContent := true
	if v, ok := n.Property(needsContentField); ok && doctree.IsTruthy(v) {
		allContent = hasContent(n)
	}
	hasSomething := n.ChildCount() > 0 || hasContent(n)
	return allChildren && allContent && hasSomething
}

func hasContent(n *node.Node) bool {
	switch c := n.Content().(type) {
	case nil:
		return false
	case string:
		return c != ""
	case map[string]any:
		return len(c) > 0
	case []any:
		return len(c) > 0
	}
	return true
}
