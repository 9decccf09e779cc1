// Package source builds the static node tree from a tree definition file, a
// local directory, a git ref, or the built-in default.
package source

import (
	_ "embed"
	"path/filepath"
	"strings"

	"github.com/CageChen/webshell/internal/vfs"
	"github.com/pkg/errors"
)

//go:embed default.yaml
var defaultTree []byte

// DefaultMaxFileSize caps how much of a file on disk or in git is loaded as content.
const DefaultMaxFileSize = 256 * 1024

// Source produces a fresh tree on every Load.
type Source interface {
	Load() (*vfs.Directory, error)
	// WatchPaths lists filesystem paths whose changes should trigger a reload.
	WatchPaths() []string
	String() string
}

// Options selects and configures a Source.
type Options struct {
	File        string
	Path        string
	GitRef      string
	Exclude     []string
	MaxFileSize int64
}

// New picks a source: an explicit definition file wins, then a git ref of a
// repository, then a plain directory, then the built-in tree.
func New(opts Options) (Source, error) {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}

	switch {
	case opts.File != "":
		abs, err := filepath.Abs(opts.File)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving tree file %s", opts.File)
		}
		switch strings.ToLower(filepath.Ext(abs)) {
		case ".yaml", ".yml":
			return &YAMLFile{Path: abs}, nil
		case ".hcl":
			return &HCLFile{Path: abs}, nil
		default:
			return nil, errors.Errorf("unsupported tree file type %q (want .yaml, .yml or .hcl)", filepath.Ext(abs))
		}
	case opts.Path != "" && opts.GitRef != "":
		abs, err := filepath.Abs(opts.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving repository %s", opts.Path)
		}
		return NewGit(abs, opts.GitRef, opts.MaxFileSize), nil
	case opts.Path != "":
		abs, err := filepath.Abs(opts.Path)
		if err != nil {
			return nil, errors.Wrapf(err, "resolving directory %s", opts.Path)
		}
		return NewLocal(abs, opts.Exclude, opts.MaxFileSize), nil
	default:
		return Default{}, nil
	}
}

// Default serves the tree compiled into the binary.
type Default struct{}

// Load parses the embedded definition.
func (Default) Load() (*vfs.Directory, error) {
	return ParseYAML(defaultTree)
}

// WatchPaths returns nothing; the built-in tree never changes.
func (Default) WatchPaths() []string { return nil }

func (Default) String() string { return "built-in tree" }
