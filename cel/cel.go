// Package cel compiles CEL expressions into content merge functions.
package cel

import (
	"fmt"
	log "log/slog"
	"reflect"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	"github.com/google/cel-go/common/types/traits"

	"github.com/sharedcode/doctree/node"
)

var (
	mapType   = reflect.TypeOf(map[string]any{})
	sliceType = reflect.TypeOf([]any{})
)

// Merger evaluates a CEL expression over the variables "existing" and "incoming",
// e.g. `existing + " " + incoming`, to combine colliding node content.
type Merger struct {
	Expression string
	program    cel.Program
}

// NewMerger compiles expression.
func NewMerger(expression string) (*Merger, error) {
	if expression == "" {
		return nil, fmt.Errorf("expression can't be empty string")
	}
	env, err := cel.NewEnv(
		cel.Variable("existing", cel.DynType),
		cel.Variable("incoming", cel.DynType),
	)
	if err != nil {
		return nil, fmt.Errorf("error creating CEL environment: %w", err)
	}
	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("error compiling CEL expression: %w", issues.Err())
	}
	p, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("error creating Program: %w", err)
	}
	return &Merger{Expression: expression, program: p}, nil
}

// Merge evaluates the expression and converts the result back to plain Go values.
func (m *Merger) Merge(existing, incoming any) (any, error) {
	out, _, err := m.program.Eval(map[string]any{
		"existing": existing,
		"incoming": incoming,
	})
	if err != nil {
		return nil, fmt.Errorf("error evaluating CEL expression: %w", err)
	}
	return toNative(out)
}

// MergeFunc adapts m to node.MergeFunc. Evaluation failures are logged and fall back to
// node.DefaultMerge.
func (m *Merger) MergeFunc() node.MergeFunc {
	return func(existing, incoming any) any {
		r, err := m.Merge(existing, incoming)
		if err != nil {
			log.Warn("merge expression failed, using default merge", "expression", m.Expression, "error", err)
			return node.DefaultMerge(existing, incoming)
		}
		return r
	}
}

func toNative(v ref.Val) (any, error) {
	switch v.(type) {
	case types.Null:
		return nil, nil
	case traits.Mapper:
		return v.ConvertToNative(mapType)
	case traits.Lister:
		return v.ConvertToNative(sliceType)
	}
	return v.Value(), nil
}
