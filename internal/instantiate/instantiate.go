// Package instantiate fills compiled templates with arguments, using only the
// substitution sites recorded at compile time.
package instantiate

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/tplc/internal/compiler"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
)

var (
	// ErrArgumentCount is returned when the number of arguments differs from
	// the template's arity.
	ErrArgumentCount = errors.New("wrong number of arguments")
	// ErrStaleIndex is returned when a recorded path does not lead to the
	// expected placeholder.
	ErrStaleIndex = errors.New("recorded path does not address the parameter")
	// ErrIncompleteIndex is returned by Verify when the recorded paths and the
	// placeholders in the body disagree.
	ErrIncompleteIndex = errors.New("variable index does not match body")
)

// Instantiate substitutes args[i] for every occurrence of parameter i in c.
// Each occurrence is replaced by a group of the argument and the result is
// canonicalized, so it has the same shape a compiled template would have.
func Instantiate(c model.Compiled, args []expr.Content) (expr.Content, error) {
	if len(args) != c.Arity() {
		return nil, fmt.Errorf("template %q: %w: got %d, want %d", c.Name, ErrArgumentCount, len(args), c.Arity())
	}

	body := c.Body
	for i, paths := range c.VariablePaths {
		for _, p := range paths {
			if err := expect(body, p, i); err != nil {
				return nil, fmt.Errorf("template %q: %w", c.Name, err)
			}
			var err error
			body, err = expr.Replace(body, p, expr.Group{Items: args[i]})
			if err != nil {
				return nil, fmt.Errorf("template %q: %w", c.Name, err)
			}
		}
	}
	return compiler.Canonicalize(body), nil
}

func expect(body expr.Content, p expr.Path, index int) error {
	node, err := expr.At(body, p)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrStaleIndex, p.String(), err)
	}
	if nv, ok := node.(expr.NamelessVariable); !ok || nv.Index != index {
		return fmt.Errorf("%w: %q holds %s, want slot %d", ErrStaleIndex, p.String(), describe(node), index)
	}
	return nil
}

func describe(e expr.Expression) string {
	if nv, ok := e.(expr.NamelessVariable); ok {
		return fmt.Sprintf("slot %d", nv.Index)
	}
	return e.Kind().String()
}

// Verify checks that every placeholder in c's body is recorded exactly once
// under its own index and that nothing else is recorded.
func Verify(c model.Compiled) error {
	found := make(map[string]int)
	var problems []string

	expr.Walker[expr.Path]{
		Visit: func(e expr.Expression, p expr.Path) bool {
			switch n := e.(type) {
			case expr.NamelessVariable:
				if n.Index < 0 || n.Index >= c.Arity() {
					problems = append(problems, fmt.Sprintf("slot %d at %q is out of range", n.Index, p.String()))
				}
				found[p.String()] = n.Index
			case expr.Apply, expr.Variable, expr.NamelessApply:
				problems = append(problems, fmt.Sprintf("unexpected %s at %q", e.Kind(), p.String()))
			}
			return true
		},
		Descend: expr.Path.Append,
	}.Walk(c.Body, nil)

	seen := make(map[string]bool)
	for i, paths := range c.VariablePaths {
		for _, p := range paths {
			key := p.String()
			index, ok := found[key]
			switch {
			case seen[key]:
				problems = append(problems, fmt.Sprintf("path %q recorded more than once", key))
			case !ok:
				problems = append(problems, fmt.Sprintf("path %q recorded for slot %d holds no slot", key, i))
			case index != i:
				problems = append(problems, fmt.Sprintf("path %q recorded for slot %d holds slot %d", key, i, index))
			}
			seen[key] = true
		}
	}

	var missing []string
	for key := range found {
		if !seen[key] {
			missing = append(missing, key)
		}
	}
	sort.Strings(missing)
	for _, key := range missing {
		problems = append(problems, fmt.Sprintf("slot %d at %q is not recorded", found[key], key))
	}

	if len(problems) > 0 {
		return fmt.Errorf("template %q: %w: %s", c.Name, ErrIncompleteIndex, strings.Join(problems, "; "))
	}
	return nil
}
