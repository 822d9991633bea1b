package compiler

import (
	"context"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// Emit turns each indexed template into its final Compiled form, with one
// path list per declared parameter. Unused parameters get an empty list.
func (c *Compiler) Emit(ctx context.Context, ts []model.Annotated[VariableIndex]) ([]model.Compiled, error) {
	logger := ctxlog.FromContext(ctx)

	out := make([]model.Compiled, len(ts))
	for i, t := range ts {
		out[i] = emit(t)
	}

	logger.Debug("Emit: Compiled templates packaged.", "templates", len(out))
	return out, nil
}

func emit(t model.Annotated[VariableIndex]) model.Compiled {
	arity := t.Template.Arity()
	paths := make([][]expr.Path, arity)
	for i := range paths {
		paths[i] = []expr.Path{}
	}
	for i, ps := range t.Annotation {
		if i < 0 || i >= arity {
			internalError("template %q refers to parameter #%d but declares %d", t.Template.Name, i, arity)
		}
		paths[i] = ps
	}
	return model.Compiled{
		Name:          t.Template.Name,
		Body:          t.Template.Body,
		VariablePaths: paths,
	}
}
