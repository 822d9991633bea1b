package expr

// Walker visits a tree read-only in pre-order while threading a context value
// of type C down the structure.
type Walker[C any] struct {
	// Visit is called for every node with the context of that node. Returning
	// false skips the node's children. A nil Visit visits everything.
	Visit func(e Expression, ctx C) bool

	// Descend derives the context of a child from its parent's context and
	// the step that reaches it. A nil Descend hands the context down as is.
	Descend func(ctx C, step Step) C
}

// Walk visits every node of c.
func (w Walker[C]) Walk(c Content, ctx C) {
	for i, e := range c {
		w.walk(e, w.descend(ctx, Index(i)))
	}
}

func (w Walker[C]) descend(ctx C, step Step) C {
	if w.Descend == nil {
		return ctx
	}
	return w.Descend(ctx, step)
}

func (w Walker[C]) walk(e Expression, ctx C) {
	if w.Visit != nil && !w.Visit(e, ctx) {
		return
	}
	switch n := e.(type) {
	case Apply:
		for i, arg := range n.Args {
			w.Walk(arg, w.descend(ctx, Argument(i)))
		}
	case NamelessApply:
		for i, arg := range n.Args {
			w.Walk(arg, w.descend(ctx, Argument(i)))
		}
	case Variable, NamelessVariable, Text:
	case Group:
		w.Walk(n.Items, w.descend(ctx, Inner()))
	case Emphasis:
		w.Walk(n.Body, w.descend(ctx, Inner()))
	case Heading:
		w.Walk(n.Body, w.descend(ctx, Inner()))
	case Paragraph:
		w.Walk(n.Body, w.descend(ctx, Inner()))
	case Equation:
		w.Walk(n.Body, w.descend(ctx, Inner()))
	case Fraction:
		w.Walk(n.Numerator, w.descend(ctx, Numerator()))
		w.Walk(n.Denominator, w.descend(ctx, Denominator()))
	case Matrix:
		for r, row := range n.Rows {
			for c, cell := range row {
				w.Walk(cell, w.descend(ctx, Cell(r, c)))
			}
		}
	case Scripts:
		if n.Sub != nil {
			w.Walk(n.Sub, w.descend(ctx, Subscript()))
		}
		if n.Sup != nil {
			w.Walk(n.Sup, w.descend(ctx, Superscript()))
		}
	default:
		panic(unhandled(e))
	}
}

// Inspect walks c without a context, in the manner of go/ast.Inspect.
func Inspect(c Content, visit func(Expression) bool) {
	Walker[struct{}]{
		Visit: func(e Expression, _ struct{}) bool { return visit(e) },
	}.Walk(c, struct{}{})
}

// Count returns how many nodes of the given kinds occur anywhere in c.
func Count(c Content, kinds ...Kind) int {
	var want [kindCount]bool
	for _, k := range kinds {
		want[k] = true
	}
	n := 0
	Inspect(c, func(e Expression) bool {
		if want[e.Kind()] {
			n++
		}
		return true
	})
	return n
}
