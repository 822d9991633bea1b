package compiler

import (
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

// table maps template names to templates and remembers insertion order.
// Concurrent get calls are safe as long as no put runs at the same time.
type table struct {
	order  []expr.Identifier
	byName map[expr.Identifier]model.Template
}

func newTable(capacity int) *table {
	return &table{
		order:  make([]expr.Identifier, 0, capacity),
		byName: make(map[expr.Identifier]model.Template, capacity),
	}
}

// put inserts t, or replaces the template of the same name in place.
func (tb *table) put(t model.Template) {
	if _, ok := tb.byName[t.Name]; !ok {
		tb.order = append(tb.order, t.Name)
	}
	tb.byName[t.Name] = t
}

func (tb *table) get(name expr.Identifier) (model.Template, bool) {
	t, ok := tb.byName[name]
	return t, ok
}

func (tb *table) len() int {
	return len(tb.order)
}

// templates returns the stored templates in insertion order.
func (tb *table) templates() []model.Template {
	out := make([]model.Template, len(tb.order))
	for i, name := range tb.order {
		out[i] = tb.byName[name]
	}
	return out
}
