package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// StepKind says how a Step moves from one level of a tree to the next.
type StepKind uint8

const (
	// StepIndex selects element I of a Content list.
	StepIndex StepKind = iota
	// StepInner enters the single Content of a Group, Emphasis, Heading,
	// Paragraph or Equation.
	StepInner
	StepNumerator
	StepDenominator
	StepSubscript
	StepSuperscript
	// StepArgument enters argument I of an Apply or NamelessApply.
	StepArgument
	// StepCell enters the matrix cell at row I, column J.
	StepCell
)

// Step is one structural move. Index and Argument use I; Cell uses I and J.
type Step struct {
	Kind StepKind
	I    int
	J    int
}

func Index(i int) Step       { return Step{Kind: StepIndex, I: i} }
func Inner() Step            { return Step{Kind: StepInner} }
func Numerator() Step        { return Step{Kind: StepNumerator} }
func Denominator() Step      { return Step{Kind: StepDenominator} }
func Subscript() Step        { return Step{Kind: StepSubscript} }
func Superscript() Step      { return Step{Kind: StepSuperscript} }
func Argument(i int) Step    { return Step{Kind: StepArgument, I: i} }
func Cell(row, col int) Step { return Step{Kind: StepCell, I: row, J: col} }

func (s Step) String() string {
	switch s.Kind {
	case StepIndex:
		return strconv.Itoa(s.I)
	case StepInner:
		return "inner"
	case StepNumerator:
		return "num"
	case StepDenominator:
		return "den"
	case StepSubscript:
		return "sub"
	case StepSuperscript:
		return "sup"
	case StepArgument:
		return "arg:" + strconv.Itoa(s.I)
	case StepCell:
		return "cell:" + strconv.Itoa(s.I) + ":" + strconv.Itoa(s.J)
	}
	return fmt.Sprintf("step(%d)", s.Kind)
}

// Path locates a node relative to a body root.
type Path []Step

// Append returns a new path extended by step. The receiver is never aliased,
// so sibling paths built from the same parent stay independent.
func (p Path) Append(step Step) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = step
	return out
}

// String renders the path as slash-separated steps, e.g. "1/num/0".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, s := range p {
		parts[i] = s.String()
	}
	return strings.Join(parts, "/")
}

// ParsePath parses the form produced by Path.String.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return Path{}, nil
	}
	parts := strings.Split(s, "/")
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		step, err := parseStep(part)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", s, err)
		}
		path = append(path, step)
	}
	return path, nil
}

func parseStep(s string) (Step, error) {
	switch s {
	case "inner":
		return Inner(), nil
	case "num":
		return Numerator(), nil
	case "den":
		return Denominator(), nil
	case "sub":
		return Subscript(), nil
	case "sup":
		return Superscript(), nil
	}
	if rest, ok := strings.CutPrefix(s, "arg:"); ok {
		i, err := atoiNonNegative(rest)
		if err != nil {
			return Step{}, err
		}
		return Argument(i), nil
	}
	if rest, ok := strings.CutPrefix(s, "cell:"); ok {
		row, col, found := strings.Cut(rest, ":")
		if !found {
			return Step{}, fmt.Errorf("cell step %q needs row and column", s)
		}
		r, err := atoiNonNegative(row)
		if err != nil {
			return Step{}, err
		}
		c, err := atoiNonNegative(col)
		if err != nil {
			return Step{}, err
		}
		return Cell(r, c), nil
	}
	i, err := atoiNonNegative(s)
	if err != nil {
		return Step{}, err
	}
	return Index(i), nil
}

func atoiNonNegative(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown step %q", s)
	}
	if i < 0 {
		return 0, fmt.Errorf("negative index in step %q", s)
	}
	return i, nil
}
