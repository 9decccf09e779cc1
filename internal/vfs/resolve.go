package vfs

import (
	"strings"
	"sync/atomic"
)

// Tree supplies the root directory resolution runs against.
type Tree interface {
	Root() *Directory
}

// Result is a resolved node together with its canonical absolute path.
type Result struct {
	Path string
	Node Node
}

// DirResult is a resolved directory together with its canonical absolute path,
// which always ends in "/".
type DirResult struct {
	Path string
	Dir  *Directory
}

// ResolveNode normalizes input against current and walks the tree from root.
// Directories resolve to a slash-terminated path; files resolve to the exact
// path, and a file addressed with a trailing slash or with segments after it
// fails with NotADirectory.
func ResolveNode(root *Directory, input, current string) (Result, error) {
	absolute, err := Normalize(input, current)
	if err != nil {
		return Result{}, err
	}

	segments := Segments(absolute)
	dir := root
	for i := 1; i < len(segments); i++ {
		segment := segments[i]
		name := strings.TrimSuffix(segment, Separator)

		child, ok := dir.Child(name)
		if !ok {
			return Result{}, pathError(PathNotFound, strings.Join(segments[:i+1], ""))
		}

		switch n := child.(type) {
		case *File:
			if i < len(segments)-1 || name != segment {
				return Result{}, pathError(NotADirectory, strings.Join(segments[:i+1], ""))
			}
			return Result{Path: absolute, Node: n}, nil
		case *Directory:
			dir = n
		}
	}

	if !IsDirPath(absolute) {
		absolute += Separator
	}
	return Result{Path: absolute, Node: dir}, nil
}

// ResolveDirectory is ResolveNode restricted to directories.
func ResolveDirectory(root *Directory, input, current string) (DirResult, error) {
	res, err := ResolveNode(root, input, current)
	if err != nil {
		return DirResult{}, err
	}
	dir, ok := res.Node.(*Directory)
	if !ok {
		return DirResult{}, pathError(NotADirectory, res.Path)
	}
	return DirResult{Path: res.Path, Dir: dir}, nil
}

// Holder is a Tree whose root can be replaced as a whole, e.g. after the
// tree definition was edited. Directories are never mutated in place.
type Holder struct {
	root atomic.Pointer[Directory]
}

// NewHolder returns a Holder serving root.
func NewHolder(root *Directory) *Holder {
	h := &Holder{}
	h.root.Store(root)
	return h
}

// Root returns the current root.
func (h *Holder) Root() *Directory {
	return h.root.Load()
}

// Swap installs a new root and returns the previous one.
func (h *Holder) Swap(root *Directory) *Directory {
	return h.root.Swap(root)
}
