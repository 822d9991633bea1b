package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/hcl"
	"github.com/vk/tplc/internal/model"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// JSON object keys of a compiled template.
const (
	keyName          = "name"
	keyArity         = "arity"
	keyBody          = "body"
	keyVariablePaths = "variable_paths"
)

// WriteJSON writes cs as an indented JSON array. Bodies use the node objects
// of hcl.Encode; paths are written in their text form.
func WriteJSON(w io.Writer, cs []model.Compiled) error {
	val := compiledValues(cs)
	raw, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return fmt.Errorf("failed to encode compiled templates: %w", err)
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent JSON: %w", err)
	}
	out.WriteByte('\n')
	_, err = out.WriteTo(w)
	return err
}

func compiledValues(cs []model.Compiled) cty.Value {
	vals := make([]cty.Value, len(cs))
	for i, c := range cs {
		vals[i] = cty.ObjectVal(map[string]cty.Value{
			keyName:          cty.StringVal(string(c.Name)),
			keyArity:         cty.NumberIntVal(int64(c.Arity())),
			keyBody:          hcl.Encode(c.Body),
			keyVariablePaths: pathValues(c.VariablePaths),
		})
	}
	return tupleOf(vals)
}

func pathValues(vp [][]expr.Path) cty.Value {
	outer := make([]cty.Value, len(vp))
	for i, paths := range vp {
		inner := make([]cty.Value, len(paths))
		for j, p := range paths {
			inner[j] = cty.StringVal(p.String())
		}
		outer[i] = tupleOf(inner)
	}
	return tupleOf(outer)
}

func tupleOf(vals []cty.Value) cty.Value {
	if len(vals) == 0 {
		return cty.EmptyTupleVal
	}
	return cty.TupleVal(vals)
}

// ReadJSON parses the output of WriteJSON.
func ReadJSON(r io.Reader) ([]model.Compiled, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ty, err := ctyjson.ImpliedType(buf)
	if err != nil {
		return nil, fmt.Errorf("invalid compiled template JSON: %w", err)
	}
	val, err := ctyjson.Unmarshal(buf, ty)
	if err != nil {
		return nil, fmt.Errorf("invalid compiled template JSON: %w", err)
	}
	if !ty.IsTupleType() {
		return nil, fmt.Errorf("invalid compiled template JSON: expected an array, got %s", ty.FriendlyName())
	}

	out := make([]model.Compiled, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		c, err := readCompiled(elem)
		if err != nil {
			return nil, fmt.Errorf("compiled template #%d: %w", len(out), err)
		}
		out = append(out, c)
	}
	return out, nil
}

func readCompiled(v cty.Value) (model.Compiled, error) {
	ty := v.Type()
	for _, key := range []string{keyName, keyArity, keyBody, keyVariablePaths} {
		if !ty.IsObjectType() || !ty.HasAttribute(key) {
			return model.Compiled{}, fmt.Errorf("missing %q", key)
		}
	}

	var name string
	var arity int
	var rawPaths [][]string
	if err := gocty.FromCtyValue(v.GetAttr(keyName), &name); err != nil {
		return model.Compiled{}, fmt.Errorf("%s: %w", keyName, err)
	}
	if err := gocty.FromCtyValue(v.GetAttr(keyArity), &arity); err != nil {
		return model.Compiled{}, fmt.Errorf("%s: %w", keyArity, err)
	}
	if err := decodeStrings(v.GetAttr(keyVariablePaths), &rawPaths); err != nil {
		return model.Compiled{}, fmt.Errorf("%s: %w", keyVariablePaths, err)
	}
	if len(rawPaths) != arity {
		return model.Compiled{}, fmt.Errorf("%s has %d entries for arity %d", keyVariablePaths, len(rawPaths), arity)
	}

	body, err := hcl.Decode(v.GetAttr(keyBody))
	if err != nil {
		return model.Compiled{}, fmt.Errorf("%s: %w", keyBody, err)
	}

	paths := make([][]expr.Path, arity)
	for i, raw := range rawPaths {
		paths[i] = make([]expr.Path, len(raw))
		for j, s := range raw {
			if paths[i][j], err = expr.ParsePath(s); err != nil {
				return model.Compiled{}, fmt.Errorf("%s[%d][%d]: %w", keyVariablePaths, i, j, err)
			}
		}
	}
	return model.Compiled{Name: expr.Identifier(name), Body: body, VariablePaths: paths}, nil
}

// decodeStrings reads a list of string lists. JSON arrays arrive as tuples,
// which gocty can only decode into slices once they are lists.
func decodeStrings(v cty.Value, target *[][]string) error {
	if !v.Type().IsTupleType() {
		return fmt.Errorf("expected an array, got %s", v.Type().FriendlyName())
	}
	out := make([][]string, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, inner := it.Element()
		if !inner.Type().IsTupleType() {
			return fmt.Errorf("expected an array, got %s", inner.Type().FriendlyName())
		}
		strs := make([]string, 0, inner.LengthInt())
		for jt := inner.ElementIterator(); jt.Next(); {
			_, s := jt.Element()
			var str string
			if err := gocty.FromCtyValue(s, &str); err != nil {
				return err
			}
			strs = append(strs, str)
		}
		out = append(out, strs)
	}
	*target = out
	return nil
}
