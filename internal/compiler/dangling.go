package compiler

import (
	"context"
	"fmt"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// CheckDangling verifies that every called name belongs to a template of the
// input set. Since the full set of templates is known here, it then checks
// that each call passes exactly one argument per callee parameter. Unknown
// callees are looked for across the whole set first, so a dangling reference
// is reported even when another template has an argument count mismatch.
func (c *Compiler) CheckDangling(ctx context.Context, ts []model.Annotated[CallSet]) ([]model.Annotated[CallSet], error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("CheckDangling: Starting.", "templates", len(ts))

	arity := make(map[expr.Identifier]int, len(ts))
	for _, t := range ts {
		arity[t.Template.Name] = t.Template.Arity()
	}

	err := c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		t := ts[i]
		for _, callee := range t.Annotation {
			if _, ok := arity[callee]; !ok {
				return &Error{
					Stage:    StageDangling,
					Template: t.Template.Name,
					Detail:   fmt.Sprintf("call to unknown template %q", callee),
					Err:      ErrDanglingTemplateReference,
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("CheckDangling: All calls resolve.")

	err = c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		return checkArity(ts[i].Template, arity)
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("CheckDangling: Argument counts match.")
	return ts, nil
}

func checkArity(t model.Template, arity map[expr.Identifier]int) error {
	var problem string
	expr.Inspect(t.Body, func(e expr.Expression) bool {
		if problem != "" {
			return false
		}
		if n, ok := e.(expr.Apply); ok && len(n.Args) != arity[n.Callee] {
			problem = fmt.Sprintf("call to %q passes %d arguments, template takes %d", n.Callee, len(n.Args), arity[n.Callee])
		}
		return problem == ""
	})
	if problem != "" {
		return &Error{Stage: StageDangling, Template: t.Name, Detail: problem, Err: ErrIllFormedTemplate}
	}
	return nil
}
