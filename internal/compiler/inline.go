package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// Inline expands every call. Input must be in dependency order, as produced
// by SortByDependency.
//
// Templates without calls seed the table unchanged. The others are grouped
// into wavefronts: a template's wave is one more than the highest wave among
// its callees, so the templates of one wave never call each other and are
// expanded in parallel against the table built by earlier waves. Each call
// is replaced by a Group holding the callee's expanded body, with every
// parameter variable replaced by a Group of the matching argument.
//
// The result lists the call-free templates first, in input order, followed
// by the expanded templates wave by wave, each wave in input order.
func (c *Compiler) Inline(ctx context.Context, ts []model.Annotated[CallSet]) ([]model.Template, error) {
	logger := ctxlog.FromContext(ctx)

	tb := newTable(len(ts))
	wave := make(map[expr.Identifier]int, len(ts))
	var waves [][]model.Template

	for _, t := range ts {
		if len(t.Annotation) == 0 {
			tb.put(t.Template)
			wave[t.Template.Name] = 0
			continue
		}
		w := 0
		for _, callee := range t.Annotation {
			cw, ok := wave[callee]
			if !ok {
				internalError("template %q is inlined before its callee %q", t.Template.Name, callee)
			}
			w = max(w, cw+1)
		}
		wave[t.Template.Name] = w
		for len(waves) < w {
			waves = append(waves, nil)
		}
		waves[w-1] = append(waves[w-1], t.Template)
	}
	logger.Debug("Inline: Starting.", "ready", tb.len(), "waves", len(waves))

	for i, pending := range waves {
		expanded := make([]model.Template, len(pending))
		err := c.forEach(ctx, len(pending), func(_ context.Context, j int) error {
			expanded[j] = inlineTemplate(tb, pending[j])
			return nil
		})
		if err != nil {
			return nil, err
		}
		for _, t := range expanded {
			tb.put(t)
		}
		logger.Debug("Inline: Wavefront complete.", "wave", i+1, "templates", len(expanded))
	}

	logger.Debug("Inline: All calls expanded.", "templates", tb.len())
	return tb.templates(), nil
}

// inlineTemplate expands the calls in t's body against tb, which must
// already hold the expanded form of every callee.
func inlineTemplate(tb *table, t model.Template) model.Template {
	r := &expr.Rewriter{
		Apply: func(r *expr.Rewriter, n expr.Apply) expr.Expression {
			callee, ok := tb.get(n.Callee)
			if !ok {
				internalError("template %q calls %q, which has not been inlined", t.Name, n.Callee)
			}
			if len(n.Args) != callee.Arity() {
				internalError("call from %q to %q passes %d arguments for %d parameters", t.Name, n.Callee, len(n.Args), callee.Arity())
			}
			env := make(map[expr.Identifier]expr.Content, len(n.Args))
			for i, param := range callee.Parameters {
				// Arguments may contain calls themselves.
				env[param] = r.RewriteContent(n.Args[i])
			}
			return expr.Group{Items: substitute(callee, env)}
		},
	}

	body := r.RewriteContent(t.Body)
	if n := expr.Count(body, expr.KindApply); n != 0 {
		internalError("template %q still has %d calls after inlining", t.Name, n)
	}
	return t.WithBody(body)
}

// substitute replaces every parameter variable in callee's body with a Group
// of its argument. Arguments are closed content, so they are inserted as is
// and never rewritten again.
func substitute(callee model.Template, env map[expr.Identifier]expr.Content) expr.Content {
	r := &expr.Rewriter{
		Variable: func(_ *expr.Rewriter, n expr.Variable) expr.Expression {
			arg, ok := env[n.Name]
			if !ok {
				internalError("template %q refers to %q, which is not a parameter", callee.Name, n.Name)
			}
			return expr.Group{Items: arg}
		},
	}
	return r.RewriteContent(callee.Body)
}
