package vfs

import "errors"

// ErrorKind classifies a resolution failure.
type ErrorKind int

// Resolution failure kinds.
const (
	InvalidPath ErrorKind = iota + 1
	PathNotFound
	NotADirectory
)

// Sentinels matched by errors.Is against a *PathError of the same kind.
// The capitalised text is shown to terminal users as is.
var (
	ErrInvalidPath   = errors.New("Invalid path")
	ErrPathNotFound  = errors.New("Path does not exist")
	ErrNotADirectory = errors.New("Not a directory")
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidPath:
		return "Invalid path"
	case PathNotFound:
		return "Path does not exist"
	case NotADirectory:
		return "Not a directory"
	default:
		return "Unknown error"
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case InvalidPath:
		return ErrInvalidPath
	case PathNotFound:
		return ErrPathNotFound
	case NotADirectory:
		return ErrNotADirectory
	}
	return nil
}

// PathError is returned by every resolution operation that fails.
type PathError struct {
	Kind ErrorKind
	Path string
}

func (e *PathError) Error() string {
	return e.Kind.String() + ": " + e.Path
}

// Is matches the sentinel for the error's kind.
func (e *PathError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

// KindOf returns the kind of a resolution error, or zero if err is not one.
func KindOf(err error) ErrorKind {
	var pe *PathError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func pathError(kind ErrorKind, path string) *PathError {
	return &PathError{Kind: kind, Path: path}
}
