package expr

import (
	"errors"
	"fmt"
)

// ErrBadPath is returned when a path does not match the shape of a tree.
var ErrBadPath = errors.New("path does not address a node")

// At returns the node addressed by p inside c.
func At(c Content, p Path) (Expression, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	e, err := element(c, p[0])
	if err != nil {
		return nil, err
	}
	if len(p) == 1 {
		return e, nil
	}
	if len(p) == 2 {
		return nil, fmt.Errorf("%w: %q ends on a list", ErrBadPath, p.String())
	}
	inner, err := child(e, p[1])
	if err != nil {
		return nil, err
	}
	return At(inner, p[2:])
}

// Replace returns a copy of c in which the node addressed by p is swapped for
// with. Only the lists along p are copied; everything else is shared.
func Replace(c Content, p Path, with Expression) (Content, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrBadPath)
	}
	e, err := element(c, p[0])
	if err != nil {
		return nil, err
	}
	out := make(Content, len(c))
	copy(out, c)
	if len(p) == 1 {
		out[p[0].I] = with
		return out, nil
	}
	if len(p) == 2 {
		return nil, fmt.Errorf("%w: %q ends on a list", ErrBadPath, p.String())
	}
	inner, err := child(e, p[1])
	if err != nil {
		return nil, err
	}
	replaced, err := Replace(inner, p[2:], with)
	if err != nil {
		return nil, err
	}
	out[p[0].I], err = withChild(e, p[1], replaced)
	return out, err
}

func element(c Content, step Step) (Expression, error) {
	if step.Kind != StepIndex {
		return nil, fmt.Errorf("%w: expected a list index, got %q", ErrBadPath, step.String())
	}
	if step.I < 0 || step.I >= len(c) {
		return nil, fmt.Errorf("%w: index %d out of range for %d elements", ErrBadPath, step.I, len(c))
	}
	return c[step.I], nil
}

// child returns the Content that step selects inside e.
func child(e Expression, step Step) (Content, error) {
	mismatch := fmt.Errorf("%w: step %q does not apply to %s", ErrBadPath, step.String(), e.Kind())
	switch n := e.(type) {
	case Apply:
		if step.Kind == StepArgument && step.I >= 0 && step.I < len(n.Args) {
			return n.Args[step.I], nil
		}
	case NamelessApply:
		if step.Kind == StepArgument && step.I >= 0 && step.I < len(n.Args) {
			return n.Args[step.I], nil
		}
	case Group:
		if step.Kind == StepInner {
			return n.Items, nil
		}
	case Emphasis:
		if step.Kind == StepInner {
			return n.Body, nil
		}
	case Heading:
		if step.Kind == StepInner {
			return n.Body, nil
		}
	case Paragraph:
		if step.Kind == StepInner {
			return n.Body, nil
		}
	case Equation:
		if step.Kind == StepInner {
			return n.Body, nil
		}
	case Fraction:
		switch step.Kind {
		case StepNumerator:
			return n.Numerator, nil
		case StepDenominator:
			return n.Denominator, nil
		}
	case Matrix:
		if step.Kind == StepCell && step.I >= 0 && step.I < len(n.Rows) &&
			step.J >= 0 && step.J < len(n.Rows[step.I]) {
			return n.Rows[step.I][step.J], nil
		}
	case Scripts:
		if step.Kind == StepSubscript && n.Sub != nil {
			return n.Sub, nil
		}
		if step.Kind == StepSuperscript && n.Sup != nil {
			return n.Sup, nil
		}
	case Variable, NamelessVariable, Text:
	default:
		panic(unhandled(e))
	}
	return nil, mismatch
}

// withChild rebuilds e with the Content selected by step replaced by c. The
// step has already been validated by child.
func withChild(e Expression, step Step, c Content) (Expression, error) {
	switch n := e.(type) {
	case Apply:
		args := append([]Content(nil), n.Args...)
		args[step.I] = c
		return Apply{Callee: n.Callee, Args: args}, nil
	case NamelessApply:
		args := append([]Content(nil), n.Args...)
		args[step.I] = c
		return NamelessApply{Callee: n.Callee, Args: args}, nil
	case Group:
		return Group{Items: c}, nil
	case Emphasis:
		return Emphasis{Body: c}, nil
	case Heading:
		return Heading{Level: n.Level, Body: c}, nil
	case Paragraph:
		return Paragraph{Body: c}, nil
	case Equation:
		return Equation{Block: n.Block, Body: c}, nil
	case Fraction:
		if step.Kind == StepNumerator {
			return Fraction{Numerator: c, Denominator: n.Denominator}, nil
		}
		return Fraction{Numerator: n.Numerator, Denominator: c}, nil
	case Matrix:
		rows := append([][]Content(nil), n.Rows...)
		row := append([]Content(nil), rows[step.I]...)
		row[step.J] = c
		rows[step.I] = row
		return Matrix{Rows: rows}, nil
	case Scripts:
		if step.Kind == StepSubscript {
			return Scripts{Sub: c, Sup: n.Sup}, nil
		}
		return Scripts{Sub: n.Sub, Sup: c}, nil
	}
	return nil, fmt.Errorf("%w: %s has no children", ErrBadPath, e.Kind())
}
