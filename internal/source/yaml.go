package source

import (
	"os"

	"github.com/CageChen/webshell/internal/vfs"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LinkTag marks a scalar as a file linking to an external URL.
const LinkTag = "!link"

// YAMLFile reads a tree definition where mappings are directories and
// scalars are files. Key order in the document is the listing order.
type YAMLFile struct {
	Path string
}

// Load reads and parses the file.
func (y *YAMLFile) Load() (*vfs.Directory, error) {
	data, err := os.ReadFile(y.Path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree file %s", y.Path)
	}
	root, err := ParseYAML(data)
	if err != nil {
		return nil, errors.Wrapf(err, "tree file %s", y.Path)
	}
	return root, nil
}

// WatchPaths returns the definition file.
func (y *YAMLFile) WatchPaths() []string { return []string{y.Path} }

func (y *YAMLFile) String() string { return "yaml " + y.Path }

// ParseYAML builds a tree from a YAML definition. An empty document is an
// empty root and a null value is an empty directory.
func ParseYAML(data []byte) (*vfs.Directory, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parsing yaml")
	}

	b := vfs.NewBuilder()
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		top := doc.Content[0]
		if top.Kind != yaml.MappingNode {
			return nil, errors.Errorf("line %d: tree root must be a mapping", top.Line)
		}
		if err := fillYAML(b, top, map[*yaml.Node]bool{}); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// fillYAML adds the entries of m to b. expanding holds the mappings on the
// current path so an alias back into one of them is reported, not followed.
func fillYAML(b *vfs.Builder, m *yaml.Node, expanding map[*yaml.Node]bool) error {
	expanding[m] = true
	defer delete(expanding, m)

	for i := 0; i+1 < len(m.Content); i += 2 {
		key, value := m.Content[i], m.Content[i+1]
		if value.Kind == yaml.AliasNode {
			if expanding[value.Alias] {
				return errors.Errorf("line %d: alias %q refers to itself", value.Line, value.Value)
			}
			value = value.Alias
		}

		switch value.Kind {
		case yaml.MappingNode:
			if err := fillYAML(b.Dir(key.Value), value, expanding); err != nil {
				return err
			}
		case yaml.ScalarNode:
			switch value.Tag {
			case LinkTag:
				b.Link(key.Value, value.Value)
			case "!!null":
				b.Dir(key.Value)
			default:
				b.File(key.Value, value.Value)
			}
		default:
			return errors.Errorf("line %d: %q must be a mapping or a scalar", value.Line, key.Value)
		}
	}
	return nil
}
