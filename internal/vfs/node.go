// Package vfs provides the read-only virtual node tree and the path resolution rules for it.
package vfs

// Node is an element of the tree. It is either a *Directory or a *File.
type Node interface {
	isNode()
}

// Entry is a named child of a directory.
type Entry struct {
	Name string
	Node Node
}

// Directory holds named children in insertion order.
type Directory struct {
	names    []string
	children map[string]Node
}

// File is a leaf holding content and an optional external link.
type File struct {
	Content string
	URL     string
}

func (*Directory) isNode() {}
func (*File) isNode()      {}

// Child looks up a direct child by name.
func (d *Directory) Child(name string) (Node, bool) {
	n, ok := d.children[name]
	return n, ok
}

// Entries returns the children in insertion order.
func (d *Directory) Entries() []Entry {
	entries := make([]Entry, len(d.names))
	for i, name := range d.names {
		entries[i] = Entry{Name: name, Node: d.children[name]}
	}
	return entries
}

// Len returns the number of direct children.
func (d *Directory) Len() int {
	return len(d.names)
}

// Root lets a directory act as its own Tree.
func (d *Directory) Root() *Directory {
	return d
}

// HasLink reports whether the file points to an external location.
func (f *File) HasLink() bool {
	return f.URL != ""
}

// CountNodes counts every node reachable from n, n included.
func CountNodes(n Node) int {
	d, ok := n.(*Directory)
	if !ok {
		return 1
	}
	count := 1
	for _, name := range d.names {
		count += CountNodes(d.children[name])
	}
	return count
}
