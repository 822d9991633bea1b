package export

import (
	"io"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/hcl"
	"github.com/vk/tplc/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// BlockType is the block type of a compiled template in HCL output.
const BlockType = "compiled"

// WriteHCL writes one block per compiled template. Bodies are written with
// the constructor functions the loader understands, so a body attribute can
// be evaluated back into the same tree.
func WriteHCL(w io.Writer, cs []model.Compiled) error {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	for i, c := range cs {
		if i > 0 {
			root.AppendNewline()
		}
		block := root.AppendNewBlock(BlockType, []string{string(c.Name)}).Body()
		block.SetAttributeValue(keyArity, cty.NumberIntVal(int64(c.Arity())))
		block.SetAttributeRaw(keyBody, contentTokens(c.Body))
		block.SetAttributeValue(keyVariablePaths, pathValues(c.VariablePaths))
	}
	_, err := w.Write(hclwrite.Format(f.Bytes()))
	return err
}

func contentTokens(c expr.Content) hclwrite.Tokens {
	elems := make([]hclwrite.Tokens, len(c))
	for i, e := range c {
		elems[i] = nodeTokens(e)
	}
	return hclwrite.TokensForTuple(elems)
}

func optionalTokens(c expr.Content) hclwrite.Tokens {
	if c == nil {
		return hclwrite.TokensForValue(cty.NullVal(cty.DynamicPseudoType))
	}
	return contentTokens(c)
}

func nodeTokens(e expr.Expression) hclwrite.Tokens {
	call := hclwrite.TokensForFunctionCall
	str := func(s string) hclwrite.Tokens { return hclwrite.TokensForValue(cty.StringVal(s)) }
	num := func(n int) hclwrite.Tokens { return hclwrite.TokensForValue(cty.NumberIntVal(int64(n))) }

	switch n := e.(type) {
	case expr.Text:
		return str(n.Value)
	case expr.NamelessVariable:
		return call("slot", num(n.Index))
	case expr.Variable:
		return call("param", str(string(n.Name)))
	case expr.Apply:
		args := []hclwrite.Tokens{str(string(n.Callee))}
		for _, a := range n.Args {
			args = append(args, contentTokens(a))
		}
		return call("call", args...)
	case expr.Group:
		return call("group", contentTokens(n.Items))
	case expr.Emphasis:
		return call("emph", contentTokens(n.Body))
	case expr.Heading:
		return call("heading", num(n.Level), contentTokens(n.Body))
	case expr.Paragraph:
		return call("para", contentTokens(n.Body))
	case expr.Equation:
		return call("eq", hclwrite.TokensForValue(cty.BoolVal(n.Block)), contentTokens(n.Body))
	case expr.Fraction:
		return call("frac", contentTokens(n.Numerator), contentTokens(n.Denominator))
	case expr.Matrix:
		rows := make([]hclwrite.Tokens, len(n.Rows))
		for i, row := range n.Rows {
			cells := make([]hclwrite.Tokens, len(row))
			for j, cell := range row {
				cells[j] = contentTokens(cell)
			}
			rows[i] = hclwrite.TokensForTuple(cells)
		}
		return call("matrix", hclwrite.TokensForTuple(rows))
	case expr.Scripts:
		return call("scripts", optionalTokens(n.Sub), optionalTokens(n.Sup))
	}
	// Kinds without a constructor are written as node objects.
	return hclwrite.TokensForValue(hcl.EncodeNode(e))
}
