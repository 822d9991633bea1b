package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// MergeNeighbours coalesces adjacent siblings of the same mergeable kind in
// every body: texts are concatenated, groups and emphases are joined and
// their combined items merged again. Running it on its own output changes
// nothing.
func (c *Compiler) MergeNeighbours(ctx context.Context, ts []model.Template) ([]model.Template, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("MergeNeighbours: Starting.", "templates", len(ts))

	out, err := c.mapBodies(ctx, ts, MergeBody)
	if err != nil {
		return nil, err
	}

	logger.Debug("MergeNeighbours: Siblings merged.")
	return out, nil
}

// MergeBody returns body with adjacent mergeable siblings coalesced.
func MergeBody(body expr.Content) expr.Content {
	return merger.RewriteContent(body)
}

// Canonicalize unnests and then merges body.
func Canonicalize(body expr.Content) expr.Content {
	return MergeBody(UnnestBody(body))
}

var merger = &expr.Rewriter{
	Content: func(r *expr.Rewriter, c expr.Content) expr.Content {
		return mergeSiblings(r.DefaultContent(c))
	},
}

// mergeSiblings folds a list whose elements are already merged internally.
// Joining two merged lists can only create a mergeable pair at the seam,
// and mergePair handles that pair recursively.
func mergeSiblings(items expr.Content) expr.Content {
	out := make(expr.Content, 0, len(items))
	for _, e := range items {
		if last := len(out) - 1; last >= 0 {
			if merged, ok := mergePair(out[last], e); ok {
				out[last] = merged
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func mergePair(a, b expr.Expression) (expr.Expression, bool) {
	switch left := a.(type) {
	case expr.Text:
		if right, ok := b.(expr.Text); ok {
			return expr.Text{Value: left.Value + right.Value}, true
		}
	case expr.Group:
		if right, ok := b.(expr.Group); ok {
			return expr.Group{Items: mergeSiblings(join(left.Items, right.Items))}, true
		}
	case expr.Emphasis:
		if right, ok := b.(expr.Emphasis); ok {
			return expr.Emphasis{Body: mergeSiblings(join(left.Body, right.Body))}, true
		}
	}
	return nil, false
}

func join(a, b expr.Content) expr.Content {
	out := make(expr.Content, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
