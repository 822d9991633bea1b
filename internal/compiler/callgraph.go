package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// CallSet holds the distinct names a template calls, in order of first
// appearance in a pre-order walk of its body.
type CallSet []expr.Identifier

// ExtractCalls annotates every template with the names called anywhere in
// its body, including calls nested inside call arguments.
func (c *Compiler) ExtractCalls(ctx context.Context, ts []model.Template) ([]model.Annotated[CallSet], error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("ExtractCalls: Starting.", "templates", len(ts))

	out := make([]model.Annotated[CallSet], len(ts))
	err := c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		out[i] = model.Annotate(ts[i], calls(ts[i].Body))
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("ExtractCalls: Call graph extracted.")
	return out, nil
}

func calls(body expr.Content) CallSet {
	var set CallSet
	seen := make(map[expr.Identifier]struct{})
	expr.Inspect(body, func(e expr.Expression) bool {
		if n, ok := e.(expr.Apply); ok {
			if _, dup := seen[n.Callee]; !dup {
				seen[n.Callee] = struct{}{}
				set = append(set, n.Callee)
			}
		}
		return true
	})
	return set
}
