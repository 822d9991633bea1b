package hcl

import (
	"github.com/vk/tplc/internal/expr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
)

// Functions returns the node constructors available in template bodies.
func Functions() map[string]function.Function {
	return map[string]function.Function{
		"param":   paramFunc,
		"call":    callFunc,
		"slot":    slotFunc,
		"group":   wrapFunc(expr.KindGroup, attrItems),
		"emph":    wrapFunc(expr.KindEmphasis, attrBody),
		"para":    wrapFunc(expr.KindParagraph, attrBody),
		"heading": headingFunc,
		"eq":      equationFunc,
		"frac":    fractionFunc,
		"matrix":  matrixFunc,
		"scripts": scriptsFunc,
	}
}

func node(kind expr.Kind, attrs map[string]cty.Value) cty.Value {
	attrs[attrKind] = cty.StringVal(kind.String())
	return cty.ObjectVal(attrs)
}

// content declares a parameter taking any value, null included. Literal null
// is dynamically typed, so without AllowDynamicType the call would short
// circuit to an unknown value. The decoder rejects nulls where content is
// required.
func content(name string) function.Parameter {
	return function.Parameter{Name: name, Type: cty.DynamicPseudoType, AllowNull: true, AllowDynamicType: true}
}

func ptr(p function.Parameter) *function.Parameter { return &p }

var paramFunc = function.New(&function.Spec{
	Description: "A reference to a parameter of the enclosing template.",
	Params:      []function.Parameter{{Name: "name", Type: cty.String}},
	Type:        function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindVariable, map[string]cty.Value{attrName: args[0]}), nil
	},
})

var callFunc = function.New(&function.Spec{
	Description: "A call of another template. Each further argument is the content bound to one parameter.",
	Params:      []function.Parameter{{Name: "template", Type: cty.String}},
	VarParam:    ptr(content("args")),
	Type:        function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindApply, map[string]cty.Value{
			attrCallee: args[0],
			attrArgs:   tuple(args[1:]),
		}), nil
	},
})

var slotFunc = function.New(&function.Spec{
	Description: "A parameter reference by position.",
	Params:      []function.Parameter{{Name: "index", Type: cty.Number}},
	Type:        function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindNamelessVariable, map[string]cty.Value{attrIndex: args[0]}), nil
	},
})

func wrapFunc(kind expr.Kind, attr string) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{content("content")},
		Type:   function.StaticReturnType(cty.DynamicPseudoType),
		Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
			return node(kind, map[string]cty.Value{attr: args[0]}), nil
		},
	})
}

var headingFunc = function.New(&function.Spec{
	Params: []function.Parameter{{Name: "level", Type: cty.Number}, content("content")},
	Type:   function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindHeading, map[string]cty.Value{attrLevel: args[0], attrBody: args[1]}), nil
	},
})

var equationFunc = function.New(&function.Spec{
	Description: "An equation, displayed on its own line when block is true.",
	Params:      []function.Parameter{{Name: "block", Type: cty.Bool}, content("content")},
	Type:        function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindEquation, map[string]cty.Value{attrBlock: args[0], attrBody: args[1]}), nil
	},
})

var fractionFunc = function.New(&function.Spec{
	Params: []function.Parameter{content("numerator"), content("denominator")},
	Type:   function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindFraction, map[string]cty.Value{attrNumerator: args[0], attrDenominator: args[1]}), nil
	},
})

var matrixFunc = function.New(&function.Spec{
	Description: "A grid given as a list of rows, each a list of cell contents.",
	Params:      []function.Parameter{content("rows")},
	Type:        function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindMatrix, map[string]cty.Value{attrRows: args[0]}), nil
	},
})

var scriptsFunc = function.New(&function.Spec{
	Description: "Subscript and superscript. Either may be null.",
	Params:      []function.Parameter{content("sub"), content("sup")},
	Type:        function.StaticReturnType(cty.DynamicPseudoType),
	Impl: func(args []cty.Value, _ cty.Type) (cty.Value, error) {
		return node(expr.KindScripts, map[string]cty.Value{attrSub: args[0], attrSup: args[1]}), nil
	},
})
