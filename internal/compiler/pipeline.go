package compiler

import (
	"context"
	"time"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/model"
)

// Compile runs every stage in order on ts. The first failing stage ends the
// run; on failure no compiled templates are returned. Results are listed in
// the order produced by Inline.
func (c *Compiler) Compile(ctx context.Context, ts []model.Template) ([]model.Compiled, error) {
	logger := ctxlog.FromContext(ctx)
	start := time.Now()
	logger.Debug("Compile: Starting pipeline.", "templates", len(ts), "workers", c.workers)

	checked, err := c.CheckWellFormed(ctx, ts)
	if err != nil {
		return nil, err
	}
	called, err := c.ExtractCalls(ctx, checked)
	if err != nil {
		return nil, err
	}
	resolved, err := c.CheckDangling(ctx, called)
	if err != nil {
		return nil, err
	}
	sorted, err := c.SortByDependency(ctx, resolved)
	if err != nil {
		return nil, err
	}
	inlined, err := c.Inline(ctx, sorted)
	if err != nil {
		return nil, err
	}
	flat, err := c.Unnest(ctx, inlined)
	if err != nil {
		return nil, err
	}
	merged, err := c.MergeNeighbours(ctx, flat)
	if err != nil {
		return nil, err
	}
	nameless, err := c.EliminateNames(ctx, merged)
	if err != nil {
		return nil, err
	}
	indexed, err := c.IndexVariables(ctx, nameless)
	if err != nil {
		return nil, err
	}
	compiled, err := c.Emit(ctx, indexed)
	if err != nil {
		return nil, err
	}

	logger.Info("Templates compiled.", "count", len(compiled), "duration", time.Since(start))
	return compiled, nil
}
