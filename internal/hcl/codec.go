package hcl

import (
	"fmt"

	"github.com/vk/tplc/internal/expr"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Attribute names of node objects.
const (
	attrKind        = "kind"
	attrName        = "name"
	attrCallee      = "callee"
	attrArgs        = "args"
	attrIndex       = "index"
	attrValue       = "value"
	attrItems       = "items"
	attrBody        = "body"
	attrLevel       = "level"
	attrBlock       = "block"
	attrNumerator   = "num"
	attrDenominator = "den"
	attrRows        = "rows"
	attrSub         = "sub"
	attrSup         = "sup"
)

// kindByName resolves the "kind" attribute of a node object.
var kindByName = func() map[string]expr.Kind {
	m := make(map[string]expr.Kind)
	for _, k := range expr.Kinds() {
		m[k.String()] = k
	}
	return m
}()

// Encode converts c into a tuple of node objects.
func Encode(c expr.Content) cty.Value {
	if len(c) == 0 {
		return cty.EmptyTupleVal
	}
	vals := make([]cty.Value, len(c))
	for i, e := range c {
		vals[i] = EncodeNode(e)
	}
	return cty.TupleVal(vals)
}

// EncodeNode converts a single expression into a node object.
func EncodeNode(e expr.Expression) cty.Value {
	attrs := map[string]cty.Value{attrKind: cty.StringVal(e.Kind().String())}
	switch n := e.(type) {
	case expr.Apply:
		attrs[attrCallee] = cty.StringVal(string(n.Callee))
		attrs[attrArgs] = encodeArgs(n.Args)
	case expr.Variable:
		attrs[attrName] = cty.StringVal(string(n.Name))
	case expr.NamelessApply:
		attrs[attrCallee] = cty.NumberIntVal(int64(n.Callee))
		attrs[attrArgs] = encodeArgs(n.Args)
	case expr.NamelessVariable:
		attrs[attrIndex] = cty.NumberIntVal(int64(n.Index))
	case expr.Text:
		attrs[attrValue] = cty.StringVal(n.Value)
	case expr.Group:
		attrs[attrItems] = Encode(n.Items)
	case expr.Emphasis:
		attrs[attrBody] = Encode(n.Body)
	case expr.Heading:
		attrs[attrLevel] = cty.NumberIntVal(int64(n.Level))
		attrs[attrBody] = Encode(n.Body)
	case expr.Paragraph:
		attrs[attrBody] = Encode(n.Body)
	case expr.Equation:
		attrs[attrBlock] = cty.BoolVal(n.Block)
		attrs[attrBody] = Encode(n.Body)
	case expr.Fraction:
		attrs[attrNumerator] = Encode(n.Numerator)
		attrs[attrDenominator] = Encode(n.Denominator)
	case expr.Matrix:
		rows := make([]cty.Value, len(n.Rows))
		for i, row := range n.Rows {
			rows[i] = encodeArgs(row)
		}
		attrs[attrRows] = tuple(rows)
	case expr.Scripts:
		attrs[attrSub] = encodeOptional(n.Sub)
		attrs[attrSup] = encodeOptional(n.Sup)
	default:
		panic(fmt.Sprintf("hcl: cannot encode %T", e))
	}
	return cty.ObjectVal(attrs)
}

func encodeArgs(args []expr.Content) cty.Value {
	vals := make([]cty.Value, len(args))
	for i, a := range args {
		vals[i] = Encode(a)
	}
	return tuple(vals)
}

func encodeOptional(c expr.Content) cty.Value {
	if c == nil {
		return cty.NullVal(cty.DynamicPseudoType)
	}
	return Encode(c)
}

func tuple(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(vals)
}

// Decode converts a cty value into Content. Collections decode element by
// element; any other value is read as a single-element list.
func Decode(v cty.Value) (expr.Content, error) {
	return decodeContent(v, cty.Path{})
}

func decodeContent(v cty.Value, path cty.Path) (expr.Content, error) {
	if err := usable(v, path); err != nil {
		return nil, err
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() && !ty.IsSetType() {
		e, err := decodeNode(v, path)
		if err != nil {
			return nil, err
		}
		return expr.Content{e}, nil
	}

	out := make(expr.Content, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		e, err := decodeNode(elem, path.Index(key))
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

func usable(v cty.Value, path cty.Path) error {
	switch {
	case v.IsNull():
		return path.NewErrorf("content must not be null")
	case !v.IsWhollyKnown():
		return path.NewErrorf("content must be known when the file is loaded")
	}
	return nil
}

func decodeNode(v cty.Value, path cty.Path) (expr.Expression, error) {
	if err := usable(v, path); err != nil {
		return nil, err
	}
	ty := v.Type()
	if ty.IsPrimitiveType() {
		s, err := convert.Convert(v, cty.String)
		if err != nil {
			return nil, path.NewError(err)
		}
		return expr.Text{Value: s.AsString()}, nil
	}
	if !ty.IsObjectType() || !ty.HasAttribute(attrKind) {
		return nil, path.NewErrorf("expected text or a node object, got %s", ty.FriendlyName())
	}

	var kindName string
	if err := decodeAttr(v, attrKind, path, &kindName); err != nil {
		return nil, err
	}
	kind, ok := kindByName[kindName]
	if !ok {
		return nil, path.GetAttr(attrKind).NewErrorf("unknown node kind %q", kindName)
	}

	d := nodeDecoder{v: v, path: path}
	switch kind {
	case expr.KindApply:
		var callee string
		d.attr(attrCallee, &callee)
		args := d.contents(attrArgs)
		return expr.Apply{Callee: expr.Identifier(callee), Args: args}, d.err
	case expr.KindVariable:
		var name string
		d.attr(attrName, &name)
		return expr.Variable{Name: expr.Identifier(name)}, d.err
	case expr.KindNamelessApply:
		var callee int
		d.attr(attrCallee, &callee)
		args := d.contents(attrArgs)
		return expr.NamelessApply{Callee: callee, Args: args}, d.err
	case expr.KindNamelessVariable:
		var index int
		d.attr(attrIndex, &index)
		return expr.NamelessVariable{Index: index}, d.err
	case expr.KindText:
		var value string
		d.attr(attrValue, &value)
		return expr.Text{Value: value}, d.err
	case expr.KindGroup:
		return expr.Group{Items: d.content(attrItems)}, d.err
	case expr.KindEmphasis:
		return expr.Emphasis{Body: d.content(attrBody)}, d.err
	case expr.KindHeading:
		var level int
		d.attr(attrLevel, &level)
		return expr.Heading{Level: level, Body: d.content(attrBody)}, d.err
	case expr.KindParagraph:
		return expr.Paragraph{Body: d.content(attrBody)}, d.err
	case expr.KindEquation:
		var block bool
		d.attr(attrBlock, &block)
		return expr.Equation{Block: block, Body: d.content(attrBody)}, d.err
	case expr.KindFraction:
		num := d.content(attrNumerator)
		den := d.content(attrDenominator)
		return expr.Fraction{Numerator: num, Denominator: den}, d.err
	case expr.KindMatrix:
		return expr.Matrix{Rows: d.rows(attrRows)}, d.err
	case expr.KindScripts:
		sub := d.optional(attrSub)
		sup := d.optional(attrSup)
		return expr.Scripts{Sub: sub, Sup: sup}, d.err
	}
	return nil, path.NewErrorf("node kind %q cannot be decoded", kindName)
}

// nodeDecoder reads the attributes of one node object and keeps the first
// error, so a case reads all its fields and checks once.
type nodeDecoder struct {
	v    cty.Value
	path cty.Path
	err  error
}

func (d *nodeDecoder) get(name string) (cty.Value, cty.Path, bool) {
	if d.err != nil {
		return cty.NilVal, nil, false
	}
	path := d.path.GetAttr(name)
	if !d.v.Type().HasAttribute(name) {
		d.err = path.NewErrorf("missing attribute %q", name)
		return cty.NilVal, nil, false
	}
	return d.v.GetAttr(name), path, true
}

func (d *nodeDecoder) attr(name string, target any) {
	if d.err != nil {
		return
	}
	d.err = decodeAttr(d.v, name, d.path, target)
}

func (d *nodeDecoder) content(name string) expr.Content {
	v, path, ok := d.get(name)
	if !ok {
		return nil
	}
	c, err := decodeContent(v, path)
	d.err = err
	return c
}

func (d *nodeDecoder) optional(name string) expr.Content {
	v, path, ok := d.get(name)
	if !ok || v.IsNull() {
		return nil
	}
	c, err := decodeContent(v, path)
	d.err = err
	return c
}

func (d *nodeDecoder) list(name string) (cty.Value, cty.Path, bool) {
	v, path, ok := d.get(name)
	if !ok {
		return v, path, false
	}
	if err := sequence(v, path); err != nil {
		d.err = err
		return v, path, false
	}
	return v, path, true
}

// sequence reports an error unless v is a known tuple or list.
func sequence(v cty.Value, path cty.Path) error {
	if err := usable(v, path); err != nil {
		return err
	}
	if ty := v.Type(); !ty.IsTupleType() && !ty.IsListType() {
		return path.NewErrorf("expected a list, got %s", ty.FriendlyName())
	}
	return nil
}

func (d *nodeDecoder) contents(name string) []expr.Content {
	v, path, ok := d.list(name)
	if !ok {
		return nil
	}
	out := make([]expr.Content, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		c, err := decodeContent(elem, path.Index(key))
		if err != nil {
			d.err = err
			return nil
		}
		out = append(out, c)
	}
	return out
}

func (d *nodeDecoder) rows(name string) [][]expr.Content {
	v, path, ok := d.list(name)
	if !ok {
		return nil
	}
	out := make([][]expr.Content, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		key, cells := it.Element()
		rowPath := path.Index(key)
		if err := sequence(cells, rowPath); err != nil {
			d.err = err
			return nil
		}
		cols := make([]expr.Content, 0, cells.LengthInt())
		for cit := cells.ElementIterator(); cit.Next(); {
			ckey, cell := cit.Element()
			c, err := decodeContent(cell, rowPath.Index(ckey))
			if err != nil {
				d.err = err
				return nil
			}
			cols = append(cols, c)
		}
		out = append(out, cols)
	}
	return out
}

// decodeAttr converts an attribute of a node object into target, a pointer
// to a Go value, the way gohcl decodes block attributes.
func decodeAttr(v cty.Value, name string, path cty.Path, target any) error {
	path = path.GetAttr(name)
	if !v.Type().HasAttribute(name) {
		return path.NewErrorf("missing attribute %q", name)
	}
	attr := v.GetAttr(name)
	if attr.IsNull() {
		return path.NewErrorf("attribute %q must not be null", name)
	}
	ty, err := gocty.ImpliedType(target)
	if err != nil {
		return path.NewError(err)
	}
	converted, err := convert.Convert(attr, ty)
	if err != nil {
		return path.NewErrorf("cannot convert %s to %s: %s", attr.Type().FriendlyName(), ty.FriendlyName(), err)
	}
	if err := gocty.FromCtyValue(converted, target); err != nil {
		return path.NewError(err)
	}
	return nil
}
