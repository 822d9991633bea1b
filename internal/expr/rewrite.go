package expr

// Rewriter rebuilds a tree. Every node kind has an optional hook; when a hook
// is nil the node is reconstructed from its rewritten children by Default.
// A hook that wants the structural recursion as well calls r.Default itself.
//
// The Content hook runs for every sibling list in the tree, including the
// root passed to RewriteContent. It typically calls r.DefaultContent first
// and then reshapes the already rewritten list.
type Rewriter struct {
	Apply            func(r *Rewriter, n Apply) Expression
	Variable         func(r *Rewriter, n Variable) Expression
	NamelessApply    func(r *Rewriter, n NamelessApply) Expression
	NamelessVariable func(r *Rewriter, n NamelessVariable) Expression
	Text             func(r *Rewriter, n Text) Expression
	Group            func(r *Rewriter, n Group) Expression
	Emphasis         func(r *Rewriter, n Emphasis) Expression
	Heading          func(r *Rewriter, n Heading) Expression
	Paragraph        func(r *Rewriter, n Paragraph) Expression
	Equation         func(r *Rewriter, n Equation) Expression
	Fraction         func(r *Rewriter, n Fraction) Expression
	Matrix           func(r *Rewriter, n Matrix) Expression
	Scripts          func(r *Rewriter, n Scripts) Expression

	Content func(r *Rewriter, c Content) Content
}

// Rewrite dispatches e to its hook, or to Default when the hook is nil.
func (r *Rewriter) Rewrite(e Expression) Expression {
	switch n := e.(type) {
	case Apply:
		if r.Apply != nil {
			return r.Apply(r, n)
		}
	case Variable:
		if r.Variable != nil {
			return r.Variable(r, n)
		}
	case NamelessApply:
		if r.NamelessApply != nil {
			return r.NamelessApply(r, n)
		}
	case NamelessVariable:
		if r.NamelessVariable != nil {
			return r.NamelessVariable(r, n)
		}
	case Text:
		if r.Text != nil {
			return r.Text(r, n)
		}
	case Group:
		if r.Group != nil {
			return r.Group(r, n)
		}
	case Emphasis:
		if r.Emphasis != nil {
			return r.Emphasis(r, n)
		}
	case Heading:
		if r.Heading != nil {
			return r.Heading(r, n)
		}
	case Paragraph:
		if r.Paragraph != nil {
			return r.Paragraph(r, n)
		}
	case Equation:
		if r.Equation != nil {
			return r.Equation(r, n)
		}
	case Fraction:
		if r.Fraction != nil {
			return r.Fraction(r, n)
		}
	case Matrix:
		if r.Matrix != nil {
			return r.Matrix(r, n)
		}
	case Scripts:
		if r.Scripts != nil {
			return r.Scripts(r, n)
		}
	default:
		panic(unhandled(e))
	}
	return r.Default(e)
}

// RewriteContent rewrites a sibling list through the Content hook, or through
// DefaultContent when the hook is nil. A nil list stays nil and never reaches
// the hook, which keeps absent scripts absent.
func (r *Rewriter) RewriteContent(c Content) Content {
	if c == nil {
		return nil
	}
	if r.Content != nil {
		return r.Content(r, c)
	}
	return r.DefaultContent(c)
}

// DefaultContent rewrites each element of c. A nil list stays nil.
func (r *Rewriter) DefaultContent(c Content) Content {
	if c == nil {
		return nil
	}
	out := make(Content, len(c))
	for i, e := range c {
		out[i] = r.Rewrite(e)
	}
	return out
}

// Default rebuilds e from its rewritten children. Leaves are returned as is.
func (r *Rewriter) Default(e Expression) Expression {
	switch n := e.(type) {
	case Apply:
		return Apply{Callee: n.Callee, Args: r.rewriteArgs(n.Args)}
	case NamelessApply:
		return NamelessApply{Callee: n.Callee, Args: r.rewriteArgs(n.Args)}
	case Variable, NamelessVariable, Text:
		return n
	case Group:
		return Group{Items: r.RewriteContent(n.Items)}
	case Emphasis:
		return Emphasis{Body: r.RewriteContent(n.Body)}
	case Heading:
		return Heading{Level: n.Level, Body: r.RewriteContent(n.Body)}
	case Paragraph:
		return Paragraph{Body: r.RewriteContent(n.Body)}
	case Equation:
		return Equation{Block: n.Block, Body: r.RewriteContent(n.Body)}
	case Fraction:
		return Fraction{
			Numerator:   r.RewriteContent(n.Numerator),
			Denominator: r.RewriteContent(n.Denominator),
		}
	case Matrix:
		if n.Rows == nil {
			return n
		}
		rows := make([][]Content, len(n.Rows))
		for i, row := range n.Rows {
			rows[i] = r.rewriteArgs(row)
		}
		return Matrix{Rows: rows}
	case Scripts:
		return Scripts{Sub: r.RewriteContent(n.Sub), Sup: r.RewriteContent(n.Sup)}
	default:
		panic(unhandled(e))
	}
}

func (r *Rewriter) rewriteArgs(args []Content) []Content {
	if args == nil {
		return nil
	}
	out := make([]Content, len(args))
	for i, arg := range args {
		out[i] = r.RewriteContent(arg)
	}
	return out
}
