// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vk/tplc/internal/expr"
)

func TestTemplate_WithBodyLeavesOriginal(t *testing.T) {
	orig := Template{Name: "a", Parameters: []expr.Identifier{"x"}, Body: expr.Content{expr.Text{Value: "1"}}}
	next := orig.WithBody(expr.Content{expr.Text{Value: "2"}})

	assert.Equal(t, expr.Content{expr.Text{Value: "1"}}, orig.Body)
	assert.Equal(t, expr.Content{expr.Text{Value: "2"}}, next.Body)
	assert.Equal(t, orig.Name, next.Name)
	assert.Equal(t, 1, next.Arity())
}

func TestAnnotate_KeepsTemplate(t *testing.T) {
	a := Template{Name: "a"}
	annotated := Annotate(a, 7)

	assert.Equal(t, a, annotated.Template)
	assert.Equal(t, 7, annotated.Annotation)
}
