// Package expr defines the expression algebra that template bodies are built
// from, together with the two traversals every compiler stage is written
// against.
//
// # Tree Shape
//
// A body is a Content: an ordered list of Expression values. Expression is a
// closed union; the concrete node types are the value structs declared in
// expr.go (Apply, Variable, Text, Fraction, ...). Nodes never change after
// construction, so a rewrite always yields a fresh tree and the input can be
// shared freely between goroutines.
//
// # Traversals
//
//   - Walker visits a tree read-only, threading a caller-defined context value
//     (for example the current Path) down through every structural step.
//   - Rewriter rebuilds a tree. Each node kind has an optional hook; a kind
//     without a hook is rebuilt from its recursively rewritten children.
//
// Both traversals dispatch with a single type switch over the node types. A
// new node kind must be added to walk.go and rewrite.go, otherwise the
// traversal panics on it and the exhaustiveness tests in this package fail.
//
// # Paths
//
// A Path addresses a node relative to a body root as a sequence of Steps:
// list indices for Content, fixed slots (numerator, subscript, ...) and matrix
// cells for structural nodes. At and Replace navigate a single path without
// re-scanning the tree.
package expr
