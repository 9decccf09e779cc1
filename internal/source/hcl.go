package source

import (
	"os"
	"sort"

	"github.com/CageChen/webshell/internal/vfs"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/pkg/errors"
	"github.com/zclconf/go-cty/cty"
)

// HCLFile reads a tree definition made of nested blocks:
//
//	dir "projects" {
//	  file "site" {
//	    url = "https://example.com"
//	  }
//	}
//	file "README.md" {
//	  content = "hello"
//	}
//
// Blocks are listed in source order.
type HCLFile struct {
	Path string
}

// Load reads and parses the file.
func (h *HCLFile) Load() (*vfs.Directory, error) {
	src, err := os.ReadFile(h.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree file %s", h.Path)
	}
	return ParseHCL(src, h.Path)
}

// WatchPaths returns the definition file.
func (h *HCLFile) WatchPaths() []string { return []string{h.Path} }

func (h *HCLFile) String() string { return "hcl " + h.Path }

// ParseHCL builds a tree from an HCL definition.
func ParseHCL(src []byte, filename string) (*vfs.Directory, error) {
	file, diags := hclsyntax.ParseConfig(src, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, errors.Wrapf(diags, "parsing %s", filename)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, errors.Errorf("%s: unexpected body type %T", filename, file.Body)
	}

	b := vfs.NewBuilder()
	if err := fillHCL(b, body); err != nil {
		return nil, errors.Wrap(err, filename)
	}
	return b.Build()
}

func fillHCL(b *vfs.Builder, body *hclsyntax.Body) error {
	if len(body.Attributes) > 0 {
		attr := firstAttribute(body.Attributes)
		return errors.Errorf("%s: attribute %q is not allowed in a directory", attr.SrcRange, attr.Name)
	}

	for _, block := range body.Blocks {
		if len(block.Labels) != 1 {
			return errors.Errorf("%s: %s block needs exactly one name label", block.TypeRange, block.Type)
		}
		name := block.Labels[0]

		switch block.Type {
		case "dir":
			if err := fillHCL(b.Dir(name), block.Body); err != nil {
				return err
			}
		case "file":
			f, err := hclFile(block)
			if err != nil {
				return err
			}
			b.FileNode(name, f)
		default:
			return errors.Errorf("%s: unknown block type %q", block.TypeRange, block.Type)
		}
	}
	return nil
}

func hclFile(block *hclsyntax.Block) (*vfs.File, error) {
	if len(block.Body.Blocks) > 0 {
		return nil, errors.Errorf("%s: file %q cannot contain blocks", block.Body.Blocks[0].TypeRange, block.Labels[0])
	}

	f := &vfs.File{}
	for name, attr := range block.Body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diags
		}
		if val.IsNull() || !val.IsKnown() || !val.Type().Equals(cty.String) {
			return nil, errors.Errorf("%s: %s must be a string", attr.SrcRange, name)
		}

		switch name {
		case "content":
			f.Content = val.AsString()
		case "url":
			f.URL = val.AsString()
		default:
			return nil, errors.Errorf("%s: unknown file attribute %q", attr.SrcRange, name)
		}
	}

	if f.Content == "" {
		f.Content = f.URL
	}
	return f, nil
}

func firstAttribute(attrs hclsyntax.Attributes) *hclsyntax.Attribute {
	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)
	return attrs[names[0]]
}
