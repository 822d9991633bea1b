package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// Unnest splices every Group into the list that contains it, at every level
// of every body.
func (c *Compiler) Unnest(ctx context.Context, ts []model.Template) ([]model.Template, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Unnest: Starting.", "templates", len(ts))

	out, err := c.mapBodies(ctx, ts, UnnestBody)
	if err != nil {
		return nil, err
	}

	logger.Debug("Unnest: Groups flattened.")
	return out, nil
}

// UnnestBody returns body with all groups spliced into their parents.
func UnnestBody(body expr.Content) expr.Content {
	return unnester.RewriteContent(body)
}

var unnester = &expr.Rewriter{
	Content: func(r *expr.Rewriter, c expr.Content) expr.Content {
		// Children are rewritten first, so a group's items are already flat.
		items := r.DefaultContent(c)
		out := make(expr.Content, 0, len(items))
		for _, e := range items {
			if g, ok := e.(expr.Group); ok {
				out = append(out, g.Items...)
				continue
			}
			out = append(out, e)
		}
		return out
	},
}

// mapBodies applies fn to every template body, sharded across workers.
func (c *Compiler) mapBodies(ctx context.Context, ts []model.Template, fn func(expr.Content) expr.Content) ([]model.Template, error) {
	out := make([]model.Template, len(ts))
	err := c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		out[i] = ts[i].WithBody(fn(ts[i].Body))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
