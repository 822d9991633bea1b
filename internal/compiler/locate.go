package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// VariableIndex maps a parameter position to the paths at which it occurs.
// Positions that never occur have no entry.
type VariableIndex map[int][]expr.Path

// IndexVariables records, for every parameter position, the path of each
// NamelessVariable that refers to it. Paths are listed in pre-order.
func (c *Compiler) IndexVariables(ctx context.Context, ts []model.Template) ([]model.Annotated[VariableIndex], error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("IndexVariables: Starting.", "templates", len(ts))

	out := make([]model.Annotated[VariableIndex], len(ts))
	err := c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		out[i] = model.Annotate(ts[i], indexVariables(ts[i]))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("IndexVariables: Substitution sites recorded.")
	return out, nil
}

func indexVariables(t model.Template) VariableIndex {
	index := make(VariableIndex)
	seen := make(map[int]map[string]struct{})

	expr.Walker[expr.Path]{
		Visit: func(e expr.Expression, path expr.Path) bool {
			switch n := e.(type) {
			case expr.NamelessVariable:
				key := path.String()
				if seen[n.Index] == nil {
					seen[n.Index] = make(map[string]struct{})
				}
				if _, dup := seen[n.Index][key]; !dup {
					seen[n.Index][key] = struct{}{}
					index[n.Index] = append(index[n.Index], path)
				}
			case expr.Variable, expr.Apply, expr.NamelessApply:
				internalError("template %q still contains a %s node at %q", t.Name, e.Kind(), path.String())
			}
			return true
		},
		Descend: expr.Path.Append,
	}.Walk(t.Body, nil)

	return index
}
