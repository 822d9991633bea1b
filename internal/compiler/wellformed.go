package compiler

import (
	"context"
	"fmt"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// CheckWellFormed validates raw templates. It rejects duplicate template
// names, duplicate or empty parameter names, and bodies that contain an
// unnamed variable, a nameless call, or a variable that is not one of the
// template's own parameters. On success the input is returned unchanged.
func (c *Compiler) CheckWellFormed(ctx context.Context, ts []model.Template) ([]model.Template, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("CheckWellFormed: Starting.", "templates", len(ts))

	seen := make(map[expr.Identifier]struct{}, len(ts))
	for _, t := range ts {
		if t.Name == "" {
			return nil, illFormed(t.Name, "template has no name")
		}
		if _, dup := seen[t.Name]; dup {
			return nil, illFormed(t.Name, "template defined more than once")
		}
		seen[t.Name] = struct{}{}
	}

	err := c.forEach(ctx, len(ts), func(_ context.Context, i int) error {
		return checkTemplate(ts[i])
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("CheckWellFormed: All templates are well-formed.")
	return ts, nil
}

func checkTemplate(t model.Template) error {
	params := make(map[expr.Identifier]struct{}, len(t.Parameters))
	for i, p := range t.Parameters {
		if p == "" {
			return illFormed(t.Name, "parameter %d has no name", i)
		}
		if _, dup := params[p]; dup {
			return illFormed(t.Name, "parameter %q declared more than once", p)
		}
		params[p] = struct{}{}
	}

	var problem string
	expr.Inspect(t.Body, func(e expr.Expression) bool {
		if problem != "" {
			return false
		}
		switch n := e.(type) {
		case expr.NamelessVariable:
			problem = fmt.Sprintf("unnamed variable placeholder #%d", n.Index)
		case expr.NamelessApply:
			problem = fmt.Sprintf("nameless call to template #%d", n.Callee)
		case expr.Variable:
			if n.Name == "" {
				problem = "anonymous variable"
			} else if _, ok := params[n.Name]; !ok {
				problem = fmt.Sprintf("free variable %q", n.Name)
			}
		}
		return problem == ""
	})
	if problem != "" {
		return illFormed(t.Name, "%s", problem)
	}
	return nil
}
