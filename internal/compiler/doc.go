// Package compiler turns a set of mutually referencing templates into
// self-contained compiled templates.
//
// # Stages
//
// Compile runs ten stages in a fixed order. Each consumes the previous
// stage's output and returns a fresh slice; the first failing stage ends the
// run and no compiled output is produced.
//
//  1. CheckWellFormed   unique names and parameters, no free or unnamed variables
//  2. ExtractCalls      annotate every template with the names it calls
//  3. CheckDangling     every called name exists, with a matching argument count
//  4. SortByDependency  callees before callers; cycles are rejected
//  5. Inline            replace every call with the callee's expanded body
//  6. Unnest            splice nested groups into their parent list
//  7. MergeNeighbours   coalesce adjacent texts, groups and emphases
//  8. EliminateNames    parameter names become declaration positions
//  9. IndexVariables    record the path of every parameter occurrence
//  10. Emit             package name, body and a dense path table
//
// # Errors
//
// User-facing failures are *Error values wrapping one of
// ErrIllFormedTemplate, ErrDanglingTemplateReference or
// ErrCyclicTemplateDependency. A violated internal invariant (for example a
// call to a template the inliner has not expanded yet) is a bug in an
// earlier stage and panics.
//
// # Concurrency
//
// Stages that treat templates independently are sharded across
// Config.Workers goroutines with errgroup; the lowest-indexed failure wins
// so results do not depend on scheduling. Inline runs one wavefront of
// mutually independent templates at a time.
package compiler
