// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "github.com/vk/tplc/internal/expr"

// Template is a named, parameterized body as supplied by a loader. Templates
// are never modified; every stage produces new values.
type Template struct {
	Name       expr.Identifier
	Parameters []expr.Identifier
	Body       expr.Content
}

// Arity returns the number of declared parameters.
func (t Template) Arity() int {
	return len(t.Parameters)
}

// WithBody returns a copy of t carrying a different body.
func (t Template) WithBody(body expr.Content) Template {
	return Template{Name: t.Name, Parameters: t.Parameters, Body: body}
}

// Annotated pairs a template with metadata derived by a compiler stage.
type Annotated[A any] struct {
	Template   Template
	Annotation A
}

// Annotate pairs t with a.
func Annotate[A any](t Template, a A) Annotated[A] {
	return Annotated[A]{Template: t, Annotation: a}
}

// Compiled is the final form of a template: a body free of calls and named
// variables, plus for every parameter position the paths of all nodes that
// refer to it.
type Compiled struct {
	Name expr.Identifier
	Body expr.Content
	// VariablePaths has one entry per declared parameter. Entries are
	// ordered by first occurrence in a pre-order walk and never repeat.
	VariablePaths [][]expr.Path
}

// Arity returns the number of parameters the compiled template expects.
func (c Compiled) Arity() int {
	return len(c.VariablePaths)
}
