package compiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vk/tplc/internal/expr"
)

var (
	// ErrIllFormedTemplate reports a template that breaks a structural rule:
	// duplicate names or parameters, a free or unnamed variable, a nameless
	// call, or a call with the wrong number of arguments.
	ErrIllFormedTemplate = errors.New("ill-formed template")
	// ErrDanglingTemplateReference reports a call to a template that does not exist.
	ErrDanglingTemplateReference = errors.New("dangling template reference")
	// ErrCyclicTemplateDependency reports templates that call each other in a cycle.
	ErrCyclicTemplateDependency = errors.New("cyclic template dependency")
)

// Stage names a compiler stage in errors and logs.
type Stage string

const (
	StageWellFormed Stage = "well-formedness"
	StageCallGraph  Stage = "call-graph"
	StageDangling   Stage = "dangling-check"
	StageSort       Stage = "dependency-sort"
	StageInline     Stage = "inline"
	StageUnnest     Stage = "unnest"
	StageMerge      Stage = "merge"
	StageEliminate  Stage = "name-elimination"
	StageIndex      Stage = "variable-index"
	StageEmit       Stage = "emit"
)

// Error is a compilation failure attributed to a stage and, where one can be
// singled out, a template.
type Error struct {
	Stage    Stage
	Template expr.Identifier
	Detail   string
	// Cycle lists the templates of one offending cycle, each calling the
	// next and the last calling the first. Only set for cycle errors.
	Cycle []expr.Identifier
	Err   error
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "stage %q", e.Stage)
	if e.Template != "" {
		fmt.Fprintf(&sb, ": template %q", e.Template)
	}
	if e.Detail != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Detail)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func illFormed(name expr.Identifier, format string, args ...any) *Error {
	return &Error{Stage: StageWellFormed, Template: name, Detail: fmt.Sprintf(format, args...), Err: ErrIllFormedTemplate}
}

// internalError panics with a message marking a broken compiler invariant.
func internalError(format string, args ...any) {
	panic("compiler: internal error: " + fmt.Sprintf(format, args...))
}
