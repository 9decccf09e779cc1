package vfs

import (
	"fmt"
	"strings"
)

// Builder assembles a tree before it is handed to resolution. Once Build
// returns, the resulting directories are never modified again.
type Builder struct {
	entries []builderEntry
	err     error
}

type builderEntry struct {
	name string
	file *File
	dir  *Builder
}

// NewBuilder returns an empty directory builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// File adds a file child.
func (b *Builder) File(name, content string) *Builder {
	return b.add(builderEntry{name: name, file: &File{Content: content}})
}

// Link adds a file child that points to an external URL. The URL doubles as its content.
func (b *Builder) Link(name, url string) *Builder {
	return b.add(builderEntry{name: name, file: &File{Content: url, URL: url}})
}

// FileNode adds an already constructed file.
func (b *Builder) FileNode(name string, f *File) *Builder {
	return b.add(builderEntry{name: name, file: &File{Content: f.Content, URL: f.URL}})
}

// Dir adds a directory child and returns the builder for it.
func (b *Builder) Dir(name string) *Builder {
	child := NewBuilder()
	b.add(builderEntry{name: name, dir: child})
	return child
}

func (b *Builder) add(e builderEntry) *Builder {
	if b.err != nil {
		return b
	}
	if err := validateName(e.name); err != nil {
		b.err = err
		return b
	}
	for _, existing := range b.entries {
		if existing.name == e.name {
			b.err = fmt.Errorf("duplicate name %q", e.name)
			return b
		}
	}
	b.entries = append(b.entries, e)
	return b
}

// Build freezes the builder into a Directory.
func (b *Builder) Build() (*Directory, error) {
	if b.err != nil {
		return nil, b.err
	}
	d := &Directory{
		names:    make([]string, 0, len(b.entries)),
		children: make(map[string]Node, len(b.entries)),
	}
	for _, e := range b.entries {
		var n Node
		if e.dir != nil {
			child, err := e.dir.Build()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.name, err)
			}
			n = child
		} else {
			n = e.file
		}
		d.names = append(d.names, e.name)
		d.children[e.name] = n
	}
	return d, nil
}

// MustBuild is Build for statically known trees.
func (b *Builder) MustBuild() *Directory {
	d, err := b.Build()
	if err != nil {
		panic(err)
	}
	return d
}

func validateName(name string) error {
	switch {
	case name == "", name == ".", name == "..":
		return fmt.Errorf("invalid name %q", name)
	case strings.Contains(name, "/"):
		return fmt.Errorf("name %q contains a slash", name)
	}
	return nil
}
