package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/depgraph"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// SortByDependency orders templates so that every template follows all the
// templates it calls. Templates with no dependency relation keep their input
// order. A cycle, including a template calling itself, fails with
// ErrCyclicTemplateDependency.
func (c *Compiler) SortByDependency(ctx context.Context, ts []model.Annotated[CallSet]) ([]model.Annotated[CallSet], error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("SortByDependency: Starting.", "templates", len(ts))

	graph := depgraph.New[expr.Identifier]()
	byName := make(map[expr.Identifier]model.Annotated[CallSet], len(ts))
	for _, t := range ts {
		graph.AddNode(t.Template.Name)
		byName[t.Template.Name] = t
	}
	for _, t := range ts {
		for _, callee := range t.Annotation {
			if err := graph.AddEdge(callee, t.Template.Name); err != nil {
				internalError("dependency graph: %v", err)
			}
		}
	}
	logger.Debug("SortByDependency: Graph built.", "nodes", graph.Len())

	sorted, unsorted := graph.TopologicalSort()
	if len(sorted) < len(ts) {
		cycle := callOrder(graph.FindCycle())
		logger.Debug("SortByDependency: Cycle detected.", "unsorted", len(unsorted), "cycle", cycle)
		for _, name := range unsorted {
			callees, err := graph.Dependencies(name)
			if err != nil {
				internalError("dependency graph: %v", err)
			}
			logger.Debug("SortByDependency: Template left unsorted.", "template", name, "callees", callees)
		}
		return nil, &Error{
			Stage:    StageSort,
			Template: cycle[0],
			Detail:   fmt.Sprintf("templates call each other in a cycle: %s", formatCycle(cycle)),
			Cycle:    cycle,
			Err:      ErrCyclicTemplateDependency,
		}
	}

	out := make([]model.Annotated[CallSet], len(sorted))
	for i, name := range sorted {
		out[i] = byName[name]
	}

	logger.Debug("SortByDependency: Templates ordered.")
	return out, nil
}

// callOrder reverses a graph cycle. The graph stores callee -> caller edges,
// so the reversed cycle lists each template before the one it calls.
func callOrder(cycle []expr.Identifier) []expr.Identifier {
	out := make([]expr.Identifier, len(cycle))
	for i, name := range cycle {
		out[len(cycle)-1-i] = name
	}
	return out
}

// formatCycle renders a cycle in call direction, e.g. "a -> b -> a".
func formatCycle(cycle []expr.Identifier) string {
	var sb strings.Builder
	for _, name := range cycle {
		sb.WriteString(string(name))
		sb.WriteString(" -> ")
	}
	sb.WriteString(string(cycle[0]))
	return sb.String()
}
