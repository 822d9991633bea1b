package compiler

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEach calls fn for every index in [0, n) on at most c.workers goroutines.
// After the first failure no new work is started. Work is started in index
// order and never skipped once started, so the lowest failing index always
// runs and its error is the one returned.
func (c *Compiler) forEach(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	errs := make([]error, n)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := fn(gctx, i); err != nil {
				errs[i] = err
				return err
			}
			return nil
		})
	}

	waitErr := g.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	if waitErr != nil {
		return waitErr
	}
	return ctx.Err()
}
