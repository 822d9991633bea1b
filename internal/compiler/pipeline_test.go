package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

func TestCompile_InlinesNestedCalls(t *testing.T) {
	compiled := mustCompile(t,
		tpl("A", []string{"x"}, v("x"), text("²")),
		tpl("B", []string{"x", "y"},
			call("A", expr.Content{v("x")}), text("+"), call("A", expr.Content{v("y")}), text("=1")),
	)

	b := compiled["B"]
	assert.Equal(t, expr.Content{
		expr.NamelessVariable{Index: 0},
		text("²+"),
		expr.NamelessVariable{Index: 1},
		text("²=1"),
	}, b.Body)
	assert.Zero(t, expr.Count(b.Body, expr.KindApply, expr.KindVariable, expr.KindNamelessApply))
	require.Len(t, b.VariablePaths, 2)
	assert.Equal(t, []expr.Path{{expr.Index(0)}}, b.VariablePaths[0])
	assert.Equal(t, []expr.Path{{expr.Index(2)}}, b.VariablePaths[1])
}

func TestCompile_MutualRecursionIsACycle(t *testing.T) {
	out, err := compile(t, 2,
		tpl("C", nil, call("D")),
		tpl("D", nil, call("C")),
	)
	require.ErrorIs(t, err, ErrCyclicTemplateDependency)
	assert.Nil(t, out)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, StageSort, cerr.Stage)
	assert.ElementsMatch(t, []expr.Identifier{"C", "D"}, cerr.Cycle)
	assert.Contains(t, err.Error(), "D -> C -> D")
}

func TestCompile_SelfCallIsACycle(t *testing.T) {
	_, err := compile(t, 1, tpl("A", nil, text("a"), call("A")))
	require.ErrorIs(t, err, ErrCyclicTemplateDependency)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, []expr.Identifier{"A"}, cerr.Cycle)
	assert.Equal(t, expr.Identifier("A"), cerr.Template)
}

func TestCompile_CycleBehindAcyclicPrefix(t *testing.T) {
	_, err := compile(t, 3,
		tpl("leaf", nil, text("x")),
		tpl("p", nil, call("leaf"), call("q")),
		tpl("q", nil, call("r")),
		tpl("r", nil, call("q")),
	)
	require.ErrorIs(t, err, ErrCyclicTemplateDependency)

	var cerr *Error
	require.True(t, errors.As(err, &cerr))
	assert.ElementsMatch(t, []expr.Identifier{"q", "r"}, cerr.Cycle)
}

func TestCompile_DanglingReference(t *testing.T) {
	_, err := compile(t, 1, tpl("E", nil, call("F")))
	require.ErrorIs(t, err, ErrDanglingTemplateReference)
	assert.EqualError(t, err, `stage "dangling-check": template "E": call to unknown template "F": dangling template reference`)
}

func TestCompile_DanglingReferenceInsideArgument(t *testing.T) {
	_, err := compile(t, 1,
		tpl("id", []string{"x"}, v("x")),
		tpl("E", nil, call("id", expr.Content{call("missing")})),
	)
	require.ErrorIs(t, err, ErrDanglingTemplateReference)
}

func TestCompile_GroupsCollapseIntoOneText(t *testing.T) {
	compiled := mustCompile(t,
		tpl("G", []string{"x"}, group(text("a")), group(text("b"), group(text("c")))),
	)

	g := compiled["G"]
	assert.Equal(t, expr.Content{text("abc")}, g.Body)
	require.Len(t, g.VariablePaths, 1)
	assert.Empty(t, g.VariablePaths[0])
}

func TestCompile_UnusedParameterKeepsItsSlot(t *testing.T) {
	compiled := mustCompile(t, tpl("H", []string{"x", "y"}, v("x"), text("+"), v("x")))

	h := compiled["H"]
	require.Len(t, h.VariablePaths, 2)
	assert.Len(t, h.VariablePaths[0], 2)
	assert.NotNil(t, h.VariablePaths[1])
	assert.Len(t, h.VariablePaths[1], 0)
	assert.Equal(t, "0", h.VariablePaths[0][0].String())
	assert.Equal(t, "2", h.VariablePaths[0][1].String())
}

func TestCompile_CallFreeTemplateIsCanonicalInput(t *testing.T) {
	in := expr.Content{
		text("a"), text("b"),
		expr.Emphasis{Body: expr.Content{group(text("c")), text("d")}},
		expr.Fraction{Numerator: expr.Content{v("x")}, Denominator: expr.Content{text("2")}},
	}
	compiled := mustCompile(t, tpl("plain", []string{"x"}, in...))

	want := expr.Content{
		text("ab"),
		expr.Emphasis{Body: expr.Content{text("cd")}},
		expr.Fraction{Numerator: expr.Content{expr.NamelessVariable{Index: 0}}, Denominator: expr.Content{text("2")}},
	}
	if diff := cmp.Diff(want, compiled["plain"].Body); diff != "" {
		t.Errorf("compiled body mismatch (-want +got):\n%s", diff)
	}
}

// structured exercises every node kind across a few levels of calls.
func structured() []model.Template {
	return []model.Template{
		tpl("sq", []string{"b"}, expr.Scripts{Sup: expr.Content{text("2")}}, v("b")),
		tpl("half", []string{"n"}, expr.Fraction{
			Numerator:   expr.Content{v("n")},
			Denominator: expr.Content{text("2")},
		}),
		tpl("cell", []string{"a", "b"}, expr.Matrix{Rows: [][]expr.Content{
			{{v("a")}, {call("sq", expr.Content{v("b")})}},
			{{call("half", expr.Content{v("a")})}, {text("0")}},
		}}),
		tpl("doc", []string{"title", "x", "y"},
			expr.Heading{Level: 1, Body: expr.Content{v("title")}},
			expr.Paragraph{Body: expr.Content{
				text("Let "), expr.Emphasis{Body: expr.Content{v("x")}}, text(" be given."),
			}},
			expr.Equation{Block: true, Body: expr.Content{
				call("cell", expr.Content{v("x")}, expr.Content{call("half", expr.Content{v("y")})}),
				expr.Scripts{Sub: expr.Content{v("y")}},
			}},
		),
		tpl("intro", nil, call("doc", expr.Content{text("Intro")}, expr.Content{text("p")}, expr.Content{text("q")})),
	}
}

func TestCompile_RecordedPathsAreExact(t *testing.T) {
	out, err := compile(t, 4, structured()...)
	require.NoError(t, err)
	require.Len(t, out, 5)

	for _, c := range out {
		t.Run(string(c.Name), func(t *testing.T) {
			assert.Zero(t, expr.Count(c.Body, expr.KindApply, expr.KindVariable, expr.KindNamelessApply))
			assert.Equal(t, occurrences(c.Body), recorded(c))

			for i, paths := range c.VariablePaths {
				for _, p := range paths {
					node, err := expr.At(c.Body, p)
					require.NoError(t, err)
					assert.Equal(t, expr.NamelessVariable{Index: i}, node)
				}
			}
		})
	}
}

func TestCompile_OutputIsCanonical(t *testing.T) {
	out, err := compile(t, 2, structured()...)
	require.NoError(t, err)
	for _, c := range out {
		if diff := cmp.Diff(c.Body, Canonicalize(c.Body)); diff != "" {
			t.Errorf("%s: canonicalizing again changed the body (-want +got):\n%s", c.Name, diff)
		}
	}
}

func TestCompile_WorkerCountDoesNotChangeResult(t *testing.T) {
	want, err := compile(t, 1, structured()...)
	require.NoError(t, err)

	for _, workers := range []int{0, 2, 3, 16} {
		got, err := compile(t, workers, structured()...)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("workers=%d changed the result (-want +got):\n%s", workers, diff)
		}
	}
}

func TestCompile_OrderFollowsWaves(t *testing.T) {
	out, err := compile(t, 2, structured()...)
	require.NoError(t, err)

	names := make([]expr.Identifier, len(out))
	for i, c := range out {
		names[i] = c.Name
	}
	assert.Equal(t, []expr.Identifier{"sq", "half", "cell", "doc", "intro"}, names)
}

func TestCompile_EmptyInput(t *testing.T) {
	out, err := compile(t, 1)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCompile_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(Config{Workers: 2}).Compile(ctx, structured())
	assert.ErrorIs(t, err, context.Canceled)
}
