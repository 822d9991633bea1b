package compiler

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

func text(s string) expr.Text { return expr.Text{Value: s} }

func v(name string) expr.Variable { return expr.Variable{Name: expr.Identifier(name)} }

func call(callee string, args ...expr.Content) expr.Apply {
	return expr.Apply{Callee: expr.Identifier(callee), Args: args}
}

func group(items ...expr.Expression) expr.Group { return expr.Group{Items: items} }

func tpl(name string, params []string, body ...expr.Expression) model.Template {
	ps := make([]expr.Identifier, len(params))
	for i, p := range params {
		ps[i] = expr.Identifier(p)
	}
	return model.Template{Name: expr.Identifier(name), Parameters: ps, Body: body}
}

func compile(t *testing.T, workers int, ts ...model.Template) ([]model.Compiled, error) {
	t.Helper()
	return New(Config{Workers: workers}).Compile(context.Background(), ts)
}

func mustCompile(t *testing.T, ts ...model.Template) map[expr.Identifier]model.Compiled {
	t.Helper()
	out, err := compile(t, 4, ts...)
	require.NoError(t, err)
	byName := make(map[expr.Identifier]model.Compiled, len(out))
	for _, c := range out {
		byName[c.Name] = c
	}
	return byName
}

// occurrences finds every NamelessVariable in body by walking it, keyed by
// index, each list of path strings sorted.
func occurrences(body expr.Content) map[int][]string {
	found := map[int][]string{}
	expr.Walker[expr.Path]{
		Visit: func(e expr.Expression, p expr.Path) bool {
			if n, ok := e.(expr.NamelessVariable); ok {
				found[n.Index] = append(found[n.Index], p.String())
			}
			return true
		},
		Descend: expr.Path.Append,
	}.Walk(body, nil)
	for _, ps := range found {
		sort.Strings(ps)
	}
	return found
}

func recorded(c model.Compiled) map[int][]string {
	out := map[int][]string{}
	for i, ps := range c.VariablePaths {
		for _, p := range ps {
			out[i] = append(out[i], p.String())
		}
		sort.Strings(out[i])
	}
	return out
}
