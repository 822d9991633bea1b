package expr

import "fmt"

// Identifier is an opaque template or parameter name.
type Identifier string

// Kind identifies the concrete type of an Expression.
type Kind uint8

const (
	KindApply Kind = iota
	KindVariable
	KindNamelessApply
	KindNamelessVariable
	KindText
	KindGroup
	KindEmphasis
	KindHeading
	KindParagraph
	KindEquation
	KindFraction
	KindMatrix
	KindScripts

	kindCount
)

var kindNames = [kindCount]string{
	KindApply:            "apply",
	KindVariable:         "variable",
	KindNamelessApply:    "nameless_apply",
	KindNamelessVariable: "slot",
	KindText:             "text",
	KindGroup:            "group",
	KindEmphasis:         "emph",
	KindHeading:          "heading",
	KindParagraph:        "para",
	KindEquation:         "eq",
	KindFraction:         "frac",
	KindMatrix:           "matrix",
	KindScripts:          "scripts",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Kinds returns every node kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// Expression is a single node of a template body. The set of implementations
// is closed: only the node types in this file satisfy it.
type Expression interface {
	Kind() Kind
	expression()
}

// Content is an ordered sibling list. It is the container used for bodies,
// call arguments and the children of every structural node.
type Content []Expression

// Apply calls the template named Callee with one Content per parameter.
type Apply struct {
	Callee Identifier
	Args   []Content
}

// Variable refers to a template parameter by name.
type Variable struct {
	Name Identifier
}

// NamelessApply is a call addressed by template position. It never appears
// in compiler input.
type NamelessApply struct {
	Callee int
	Args   []Content
}

// NamelessVariable refers to a template parameter by declaration position.
type NamelessVariable struct {
	Index int
}

// Text is a literal run of characters.
type Text struct {
	Value string
}

// Group is a Content nested directly inside another Content. Inlining
// produces groups; unnesting removes them again.
type Group struct {
	Items Content
}

type Emphasis struct {
	Body Content
}

type Heading struct {
	Level int
	Body  Content
}

type Paragraph struct {
	Body Content
}

// Equation is inline math, or display math when Block is set.
type Equation struct {
	Block bool
	Body  Content
}

type Fraction struct {
	Numerator   Content
	Denominator Content
}

// Matrix is a grid of cells, row-major.
type Matrix struct {
	Rows [][]Content
}

// Scripts attaches a subscript and/or superscript. A nil Content means the
// script is absent; an empty non-nil Content is an empty script.
type Scripts struct {
	Sub Content
	Sup Content
}

func (Apply) Kind() Kind            { return KindApply }
func (Variable) Kind() Kind         { return KindVariable }
func (NamelessApply) Kind() Kind    { return KindNamelessApply }
func (NamelessVariable) Kind() Kind { return KindNamelessVariable }
func (Text) Kind() Kind             { return KindText }
func (Group) Kind() Kind            { return KindGroup }
func (Emphasis) Kind() Kind         { return KindEmphasis }
func (Heading) Kind() Kind          { return KindHeading }
func (Paragraph) Kind() Kind        { return KindParagraph }
func (Equation) Kind() Kind         { return KindEquation }
func (Fraction) Kind() Kind         { return KindFraction }
func (Matrix) Kind() Kind           { return KindMatrix }
func (Scripts) Kind() Kind          { return KindScripts }

func (Apply) expression()            {}
func (Variable) expression()         {}
func (NamelessApply) expression()    {}
func (NamelessVariable) expression() {}
func (Text) expression()             {}
func (Group) expression()            {}
func (Emphasis) expression()         {}
func (Heading) expression()          {}
func (Paragraph) expression()        {}
func (Equation) expression()         {}
func (Fraction) expression()         {}
func (Matrix) expression()           {}
func (Scripts) expression()          {}

// unhandled formats the panic message for a node type a traversal does not know.
func unhandled(e Expression) string {
	return fmt.Sprintf("expr: unhandled expression type %T", e)
}
