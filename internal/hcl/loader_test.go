package hcl

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

func text(s string) expr.Text { return expr.Text{Value: s} }

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSource_Constructors(t *testing.T) {
	src := `
template "square" {
  params      = ["x"]
  description = "x squared"
  body        = [param("x"), "²"]
}

template "everything" {
  params = ["a", "b"]
  body = [
    "n=", 1, true,
    group(["g", emph(["e"])]),
    heading(2, ["Title"]),
    para([call("square", [param("a")])]),
    eq(true, [frac(["1"], [param("b")]), scripts(null, ["2"]), scripts([], null)]),
    matrix([[["a"], ["b"]], [["c"], []]]),
    call("square", "bare"),
    slot(3),
  ]
}
`
	ts, err := NewLoader().LoadSource(context.Background(), "inline.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, ts, 2)

	assert.Equal(t, model.Template{
		Name:       "square",
		Parameters: []expr.Identifier{"x"},
		Body:       expr.Content{expr.Variable{Name: "x"}, text("²")},
	}, ts[0])

	want := expr.Content{
		text("n="), text("1"), text("true"),
		expr.Group{Items: expr.Content{text("g"), expr.Emphasis{Body: expr.Content{text("e")}}}},
		expr.Heading{Level: 2, Body: expr.Content{text("Title")}},
		expr.Paragraph{Body: expr.Content{
			expr.Apply{Callee: "square", Args: []expr.Content{{expr.Variable{Name: "a"}}}},
		}},
		expr.Equation{Block: true, Body: expr.Content{
			expr.Fraction{Numerator: expr.Content{text("1")}, Denominator: expr.Content{expr.Variable{Name: "b"}}},
			expr.Scripts{Sup: expr.Content{text("2")}},
			expr.Scripts{Sub: expr.Content{}},
		}},
		expr.Matrix{Rows: [][]expr.Content{
			{{text("a")}, {text("b")}},
			{{text("c")}, {}},
		}},
		expr.Apply{Callee: "square", Args: []expr.Content{{text("bare")}}},
		expr.NamelessVariable{Index: 3},
	}
	assert.Equal(t, []expr.Identifier{"a", "b"}, ts[1].Parameters)
	if diff := cmp.Diff(want, ts[1].Body); diff != "" {
		t.Errorf("decoded body mismatch (-want +got):\n%s", diff)
	}

	scripts := ts[1].Body[6].(expr.Equation).Body[2].(expr.Scripts)
	assert.NotNil(t, scripts.Sub, "an empty subscript is still present")
	assert.Nil(t, scripts.Sup)
}

func TestLoadSource_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "syntax",
			src:  `template "a" {`,
			want: "failed to parse HCL source",
		},
		{
			name: "unknown block",
			src:  `widget "a" {}`,
			want: "Unsupported block type",
		},
		{
			name: "missing body",
			src:  `template "a" { params = [] }`,
			want: `bad.hcl:1,1-13: Missing required argument; The argument "body" is required`,
		},
		{
			name: "null body",
			src:  `template "a" { body = null }`,
			want: "Invalid template body; content must not be null",
		},
		{
			name: "unknown function",
			src:  `template "a" { body = [nope()] }`,
			want: "Call to unknown function",
		},
		{
			name: "null content",
			src:  `template "a" { body = [emph(null)] }`,
			want: "at body[0].body: content must not be null",
		},
		{
			name: "null group",
			src:  `template "a" { body = [group(null)] }`,
			want: "at body[0].items: content must not be null",
		},
		{
			name: "null call argument",
			src:  `template "a" { body = [call("b", null)] }`,
			want: "at body[0].args[0]: content must not be null",
		},
		{
			name: "unknown node kind",
			src:  `template "a" { body = ["ok", { kind = "nope" }] }`,
			want: `at body[1].kind: unknown node kind "nope"`,
		},
		{
			name: "object without kind",
			src:  `template "a" { body = [{ value = "x" }] }`,
			want: "expected text or a node object",
		},
		{
			name: "fractional heading level",
			src:  `template "a" { body = [heading(1.5, ["x"])] }`,
			want: "at body[0].level",
		},
		{
			name: "matrix row is not a list",
			src:  `template "a" { body = [matrix(["x"])] }`,
			want: "at body[0].rows[0]: expected a list, got string",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewLoader().LoadSource(context.Background(), "bad.hcl", []byte(tc.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadSource_OneSidedScripts(t *testing.T) {
	src := `template "a" {
  body = [scripts(null, ["2"]), scripts(["i"], null), scripts(null, null)]
}
`
	ts, err := NewLoader().LoadSource(context.Background(), "scripts.hcl", []byte(src))
	require.NoError(t, err)
	require.Len(t, ts, 1)

	want := expr.Content{
		expr.Scripts{Sup: expr.Content{text("2")}},
		expr.Scripts{Sub: expr.Content{text("i")}},
		expr.Scripts{},
	}
	if diff := cmp.Diff(want, ts[0].Body); diff != "" {
		t.Errorf("decoded body mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadSource_PointsAtBadElement(t *testing.T) {
	src := `template "a" {
  body = [
    "ok",
    { kind = "nope" },
  ]
}
`
	_, err := NewLoader().LoadSource(context.Background(), "bad.hcl", []byte(src))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.hcl:4,5-")
	assert.Contains(t, err.Error(), "Invalid template body")
}

func TestLoad_WalksDirectoriesInLexicalOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.hcl", `template "b1" { body = ["b"] }`)
	writeFile(t, dir, "a.hcl", `
template "a1" { body = ["a"] }
template "a2" { body = ["a"] }
`)
	writeFile(t, dir, "nested/c.hcl", `template "c1" { body = ["c"] }`)
	writeFile(t, dir, "notes.txt", `not a template`)
	extra := writeFile(t, t.TempDir(), "extra.tpl", `template "x1" { body = ["x"] }`)

	ts, err := NewLoader().Load(context.Background(), dir, filepath.Join(dir, "a.hcl"), extra)
	require.NoError(t, err)

	names := make([]expr.Identifier, len(ts))
	for i, tmpl := range ts {
		names[i] = tmpl.Name
	}
	assert.Equal(t, []expr.Identifier{"a1", "a2", "b1", "c1", "x1"}, names)
}

func TestLoad_MissingPath(t *testing.T) {
	_, err := NewLoader().Load(context.Background(), filepath.Join(t.TempDir(), "absent"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_ReportsFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "broken.hcl", `template "a" { body = [param()] }`)

	_, err := NewLoader().Load(context.Background(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
	assert.Contains(t, err.Error(), `template "a"`)
}

func TestCodec_RoundTrip(t *testing.T) {
	in := expr.Content{
		expr.Apply{Callee: "f", Args: []expr.Content{{expr.Variable{Name: "x"}}, {}}},
		expr.NamelessApply{Callee: 1, Args: []expr.Content{{expr.NamelessVariable{Index: 0}}}},
		text("t"),
		expr.Group{Items: expr.Content{text("g")}},
		expr.Emphasis{Body: expr.Content{text("e")}},
		expr.Heading{Level: 3, Body: expr.Content{text("h")}},
		expr.Paragraph{Body: expr.Content{text("p")}},
		expr.Equation{Body: expr.Content{
			expr.Fraction{Numerator: expr.Content{text("1")}, Denominator: expr.Content{text("2")}},
			expr.Matrix{Rows: [][]expr.Content{{{text("a")}, {}}, {}}},
			expr.Scripts{Sub: expr.Content{text("i")}},
		}},
	}

	out, err := Decode(Encode(in))
	require.NoError(t, err)
	if diff := cmp.Diff(in, out, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip changed the tree (-want +got):\n%s", diff)
	}

	scripts := out[7].(expr.Equation).Body[2].(expr.Scripts)
	assert.Nil(t, scripts.Sup)
}

func TestFindAllHCLFiles_Dedupes(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.hcl", ``)

	files, err := findAllHCLFiles([]string{a, dir, dir + string(filepath.Separator)})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)
}
