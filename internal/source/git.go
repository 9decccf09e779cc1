package source

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/CageChen/webshell/internal/vfs"
	"github.com/pkg/errors"
)

// Git serves the tree of a git ref (branch, tag, or commit) straight from the
// object database.
type Git struct {
	repoPath    string
	ref         string
	maxFileSize int64
}

// NewGit creates a Git source for the given ref in the repository at repoPath.
func NewGit(repoPath, ref string, maxFileSize int64) *Git {
	return &Git{repoPath: repoPath, ref: ref, maxFileSize: maxFileSize}
}

// WatchPaths returns nothing; a ref is read from the object database and
// not watched.
func (g *Git) WatchPaths() []string { return nil }

func (g *Git) String() string { return fmt.Sprintf("git %s@%s", g.repoPath, g.ref) }

func (g *Git) git(args ...string) ([]byte, error) {
	cmd := exec.Command("git", append([]string{"-C", g.repoPath}, args...)...)
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("git %s: %s", strings.Join(args, " "), strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, err
	}
	return out, nil
}

type gitBlob struct {
	path string
	hash string
	size int64
}

// Load lists every blob of the ref and reads their contents. Directories are
// implied by blob paths, so empty trees do not appear.
func (g *Git) Load() (*vfs.Directory, error) {
	blobs, err := g.listBlobs()
	if err != nil {
		return nil, err
	}

	root := vfs.NewBuilder()
	dirs := map[string]*vfs.Builder{"": root}
	for _, blob := range blobs {
		dirPath, name := splitGitPath(blob.path)
		parent := g.ensureDir(dirs, dirPath)

		content := tooLarge(blob.size)
		if blob.size <= g.maxFileSize {
			data, err := g.git("cat-file", "blob", blob.hash)
			if err != nil {
				return nil, errors.Wrapf(err, "reading %s", blob.path)
			}
			content = string(data)
		}
		parent.File(name, content)
	}
	return root.Build()
}

func (g *Git) listBlobs() ([]gitBlob, error) {
	// git would read such a ref as an option
	if strings.HasPrefix(g.ref, "-") {
		return nil, errors.Errorf("invalid ref %q", g.ref)
	}
	out, err := g.git("ls-tree", "-r", "-l", "-z", g.ref)
	if err != nil {
		return nil, errors.Wrapf(err, "listing %s", g.ref)
	}

	var blobs []gitBlob
	for _, record := range bytes.Split(out, []byte{0}) {
		if len(record) == 0 {
			continue
		}
		// Format: "<mode> <type> <hash> <size>\t<path>"
		line := string(record)
		tab := strings.IndexByte(line, '\t')
		if tab < 0 {
			continue
		}
		fields := strings.Fields(line[:tab])
		if len(fields) < 4 || fields[1] != "blob" {
			continue
		}
		size, _ := strconv.ParseInt(fields[3], 10, 64)
		blobs = append(blobs, gitBlob{path: line[tab+1:], hash: fields[2], size: size})
	}
	return blobs, nil
}

func (g *Git) ensureDir(dirs map[string]*vfs.Builder, dirPath string) *vfs.Builder {
	if b, ok := dirs[dirPath]; ok {
		return b
	}
	parentPath, name := splitGitPath(dirPath)
	b := g.ensureDir(dirs, parentPath).Dir(name)
	dirs[dirPath] = b
	return b
}

func splitGitPath(path string) (string, string) {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
