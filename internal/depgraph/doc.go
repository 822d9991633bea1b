// Package depgraph is a small directed graph used to order templates so that
// every template comes after the templates it calls.
//
// An edge from -> to records that `to` depends on `from`. For templates that
// means callee -> caller. Nodes and edges keep their insertion order, so the
// topological order and the reported cycle are deterministic for a given
// input.
package depgraph
