package source

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/CageChen/webshell/internal/vfs"
	"github.com/pkg/errors"
)

// Local mirrors a directory on disk. Files become file nodes holding their
// content; files above the size cap hold a short placeholder instead.
type Local struct {
	root        string
	exclude     []string
	maxFileSize int64
}

// NewLocal creates a Local rooted at the given directory.
func NewLocal(root string, exclude []string, maxFileSize int64) *Local {
	return &Local{root: root, exclude: exclude, maxFileSize: maxFileSize}
}

// Load walks the directory.
func (l *Local) Load() (*vfs.Directory, error) {
	info, err := os.Stat(l.root)
	if err != nil {
		return nil, errors.Wrapf(err, "reading tree root %s", l.root)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("tree root %s is not a directory", l.root)
	}

	b := vfs.NewBuilder()
	if err := l.fill(b, l.root); err != nil {
		return nil, err
	}
	return b.Build()
}

// WatchPaths returns the root directory.
func (l *Local) WatchPaths() []string { return []string{l.root} }

func (l *Local) String() string { return "directory " + l.root }

// Excluded reports whether a path is hidden by an exclude pattern.
func (l *Local) Excluded(path string) bool {
	base := filepath.Base(path)
	for _, pattern := range l.exclude {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func (l *Local) fill(b *vfs.Builder, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, "listing %s", dir)
	}

	// Sort: directories first, then files, both alphabetically
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)
		if l.Excluded(full) {
			continue
		}

		if entry.IsDir() {
			if err := l.fill(b.Dir(name), full); err != nil {
				return err
			}
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}

		content, err := l.readFile(full)
		if err != nil {
			return err
		}
		b.File(name, content)
	}
	return nil
}

func (l *Local) readFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", errors.Wrapf(err, "stat %s", path)
	}
	if info.Size() > l.maxFileSize {
		return tooLarge(info.Size()), nil
	}

	data, err := io.ReadAll(io.LimitReader(f, l.maxFileSize))
	if err != nil {
		return "", errors.Wrapf(err, "reading %s", path)
	}
	return string(data), nil
}

func tooLarge(size int64) string {
	return fmt.Sprintf("(%d bytes, too large to display)", size)
}
