package tree

import (
	"fmt"

	"github.com/sharedcode/doctree"
)

// PathTo builds a single-branch Path through keys, ending in Endpoint(true).
// An empty keys yields an empty Path.
func PathTo(keys ...string) Path {
	if len(keys) == 0 {
		return Path{}
	}
	var h Hop = Endpoint(true)
	for i := len(keys) - 1; i > 0; i-- {
		h = Path{keys[i]: h}
	}
	return Path{keys[0]: h}
}

// ParsePath converts a decoded JSON object, e.g. {"esv": {"genesis": true}}, into a Path.
func ParsePath(v map[string]any) (Path, error) {
	p := make(Path, len(v))
	for k, h := range v {
		switch x := h.(type) {
		case bool:
			p[k] = Endpoint(x)
		case map[string]any:
			sub, err := ParsePath(x)
			if err != nil {
				return nil, err
			}
			p[k] = sub
		default:
			return nil, doctree.NewError(doctree.InvalidArgument, fmt.Errorf("path value of %q has type %T, want bool or object", k, h), k)
		}
	}
	return p, nil
}
