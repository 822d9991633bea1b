package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// EliminateNames replaces every Variable with a NamelessVariable holding the
// parameter's declaration position.
func (c *Compiler) EliminateNames(ctx context.Context, ts []model.Template) ([]model.Template, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("EliminateNames: Starting.", "templates", len(ts))

	out := make([]model.Template, len(ts))
	err := c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		out[i] = eliminateNames(ts[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("EliminateNames: Variables resolved to positions.")
	return out, nil
}

func eliminateNames(t model.Template) model.Template {
	position := make(map[expr.Identifier]int, len(t.Parameters))
	for i, p := range t.Parameters {
		position[p] = i
	}
	r := &expr.Rewriter{
		Variable: func(_ *expr.Rewriter, n expr.Variable) expr.Expression {
			i, ok := position[n.Name]
			if !ok {
				internalError("template %q refers to %q, which is not a parameter", t.Name, n.Name)
			}
			return expr.NamelessVariable{Index: i}
		},
	}
	return t.WithBody(r.RewriteContent(t.Body))
}
