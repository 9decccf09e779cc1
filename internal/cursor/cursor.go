// Package cursor holds the current directory of a terminal session.
package cursor

import (
	"github.com/CageChen/webshell/internal/vfs"
)

// Key is the storage key the current path is persisted under.
const Key = "currentPath"

// Root is the path a cursor starts at when nothing usable was persisted.
const Root = "/"

// Store is the key-value persistence the cursor reads once and writes after
// every successful change.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Cursor is the single writer of a session's current path. The path is always
// absolute and ends in "/". A Cursor is not safe for concurrent use.
type Cursor struct {
	tree    vfs.Tree
	store   Store
	current string
}

// New creates a cursor over tree, starting from the path persisted in store.
// A persisted value that no longer names a directory falls back to the root.
func New(tree vfs.Tree, store Store) *Cursor {
	c := &Cursor{tree: tree, store: store, current: Root}
	if saved, ok := store.Get(Key); ok && saved != "" {
		if res, err := vfs.ResolveDirectory(tree.Root(), saved, Root); err == nil {
			c.current = res.Path
		}
	}
	return c
}

// CurrentPath returns the current absolute directory path.
func (c *Cursor) CurrentPath() string {
	return c.current
}

// SetCurrentPath moves the cursor to the directory named by path. On failure
// the cursor is left untouched and the resolution error is returned. If
// persisting fails the in-memory move is rolled back.
func (c *Cursor) SetCurrentPath(path string) error {
	res, err := vfs.ResolveDirectory(c.tree.Root(), path, c.current)
	if err != nil {
		return err
	}
	if err := c.store.Set(Key, res.Path); err != nil {
		return err
	}
	c.current = res.Path
	return nil
}

// Resolve resolves path relative to the current directory.
func (c *Cursor) Resolve(path string) (vfs.Result, error) {
	return vfs.ResolveNode(c.tree.Root(), path, c.current)
}

// ResolveDirectory resolves path relative to the current directory and
// requires it to be a directory.
func (c *Cursor) ResolveDirectory(path string) (vfs.DirResult, error) {
	return vfs.ResolveDirectory(c.tree.Root(), path, c.current)
}
