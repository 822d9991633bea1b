package hcl

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/tplc/internal/ctxlog"
	"github.com/vk/tplc/internal/expr"
	"github.com/vk/tplc/internal/model"
	"github.com/zclconf/go-cty/cty"
)

// FileExtension is the suffix of template files picked up from directories.
const FileExtension = ".hcl"

// Loader reads template definitions from HCL files.
type Loader struct {
	parser  *hclparse.Parser
	evalCtx *hcl.EvalContext
}

// NewLoader creates a Loader whose bodies may use the node constructors.
func NewLoader() *Loader {
	return &Loader{
		parser:  hclparse.NewParser(),
		evalCtx: &hcl.EvalContext{Functions: Functions()},
	}
}

// fileRoot is the schema of a template file. Any other top-level block or
// attribute is an error.
type fileRoot struct {
	Templates []*templateBlock `hcl:"template,block"`
}

type templateBlock struct {
	Name        string         `hcl:"name,label"`
	Params      []string       `hcl:"params,optional"`
	Body        hcl.Expression `hcl:"body"`
	BodyRange   hcl.Range      `hcl:"body,attr_range"`
	Description string         `hcl:"description,optional"`
	DefRange    hcl.Range      `hcl:",def_range"`
}

// Load reads every template from paths. A path may name a file or a
// directory, which is searched recursively for files ending in
// FileExtension. Files are read in the order the paths are given, with the
// files of a directory in lexical order; templates keep the order in which
// they appear. A file reached twice is read once.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]model.Template, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(files))

	var templates []model.Template
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		ts, err := l.decodeFile(ctx, hclFile, file)
		if err != nil {
			return nil, err
		}
		templates = append(templates, ts...)
	}

	logger.Debug("HCL loading complete.", "files", len(files), "templates", len(templates))
	return templates, nil
}

// LoadSource reads the templates of a single file held in memory. filename
// is only used in diagnostics.
func (l *Loader) LoadSource(ctx context.Context, filename string, src []byte) ([]model.Template, error) {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL source %s: %w", filename, diags)
	}
	return l.decodeFile(ctx, hclFile, filename)
}

func (l *Loader) decodeFile(ctx context.Context, hclFile *hcl.File, filename string) ([]model.Template, error) {
	_, logger := ctxlog.With(ctx, "file", filename)

	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	templates := make([]model.Template, 0, len(root.Templates))
	for _, block := range root.Templates {
		t, diags := l.translateTemplate(block)
		if diags.HasErrors() {
			return nil, fmt.Errorf("error in template %q in file %s: %w", block.Name, filename, diags)
		}
		logger.Debug("Loaded template.", "template", t.Name, "params", t.Arity(), "description", block.Description)
		templates = append(templates, t)
	}
	return templates, nil
}

func (l *Loader) translateTemplate(block *templateBlock) (model.Template, hcl.Diagnostics) {
	// gohcl never requires an hcl.Expression field; a missing body leaves
	// the attribute range unset.
	if block.BodyRange == (hcl.Range{}) {
		return model.Template{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Missing required argument",
			Detail:   `The argument "body" is required, but no definition was found.`,
			Subject:  block.DefRange.Ptr(),
		}}
	}
	val, diags := block.Body.Value(l.evalCtx)
	if diags.HasErrors() {
		return model.Template{}, diags
	}

	body, err := Decode(val)
	if err != nil {
		return model.Template{}, hcl.Diagnostics{{
			Severity: hcl.DiagError,
			Summary:  "Invalid template body",
			Detail:   describeError(err),
			Subject:  elementRange(block.Body, err),
			Context:  block.DefRange.Ptr(),
		}}
	}

	params := make([]expr.Identifier, len(block.Params))
	for i, p := range block.Params {
		params[i] = expr.Identifier(p)
	}
	return model.Template{Name: expr.Identifier(block.Name), Parameters: params, Body: body}, nil
}

// elementRange narrows a decoding error to the element of a tuple literal
// body it occurred in. Any other body is reported as a whole.
func elementRange(body hcl.Expression, err error) *hcl.Range {
	rng := body.Range()
	tuple, ok := body.(*hclsyntax.TupleConsExpr)
	var perr cty.PathError
	if !ok || !errors.As(err, &perr) || len(perr.Path) == 0 {
		return &rng
	}
	step, ok := perr.Path[0].(cty.IndexStep)
	if !ok || step.Key.Type() != cty.Number {
		return &rng
	}
	i, acc := step.Key.AsBigFloat().Int64()
	if acc != big.Exact || i < 0 || i >= int64(len(tuple.Exprs)) {
		return &rng
	}
	rng = tuple.Exprs[i].Range()
	return &rng
}

// describeError renders a decoding error, prefixed with the location inside
// the body when there is one.
func describeError(err error) string {
	var perr cty.PathError
	if !errors.As(err, &perr) || len(perr.Path) == 0 {
		return err.Error()
	}
	return fmt.Sprintf("at body%s: %s", formatPath(perr.Path), err.Error())
}

func formatPath(path cty.Path) string {
	var sb strings.Builder
	for _, step := range path {
		switch s := step.(type) {
		case cty.IndexStep:
			switch s.Key.Type() {
			case cty.Number:
				fmt.Fprintf(&sb, "[%s]", s.Key.AsBigFloat().Text('f', -1))
			case cty.String:
				fmt.Fprintf(&sb, "[%q]", s.Key.AsString())
			default:
				sb.WriteString("[*]")
			}
		case cty.GetAttrStep:
			sb.WriteString(".")
			sb.WriteString(s.Name)
		}
	}
	return sb.String()
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl
// files found, without duplicates.
func findAllHCLFiles(paths []string) ([]string, error) {
	var allFiles []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, wasSeen := seen[p]; !wasSeen {
			allFiles = append(allFiles, p)
			seen[p] = struct{}{}
		}
	}

	for _, path := range paths {
		path = filepath.Clean(path)
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("error accessing path %s: %w", path, err)
		}

		if !info.IsDir() {
			// Explicitly named files are read whatever their extension.
			add(path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && filepath.Ext(p) == FileExtension {
				add(p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("error walking directory %s: %w", path, err)
		}
	}
	return allFiles, nil
}
