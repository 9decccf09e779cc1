package handler

import (
	"net/http"
	"strings"

	"github.com/CageChen/webshell/internal/vfs"
	"github.com/gin-gonic/gin"
)

// TreeNode represents a file or directory in the tree
type TreeNode struct {
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Path     string      `json:"path"`
	URL      string      `json:"url,omitempty"`
	Size     int         `json:"size,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// TreeHandler serves the node tree as JSON
type TreeHandler struct {
	tree vfs.Tree
}

// NewTreeHandler creates a new tree handler
func NewTreeHandler(tree vfs.Tree) *TreeHandler {
	return &TreeHandler{tree: tree}
}

// GetTree returns the tree below the absolute path given in ?path= (default /)
func (h *TreeHandler) GetTree(c *gin.Context) {
	res, err := vfs.ResolveNode(h.tree.Root(), c.Query("path"), "/")
	if err != nil {
		status := http.StatusBadRequest
		if vfs.KindOf(err) == vfs.PathNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, buildTree(baseName(res.Path), res.Path, res.Node))
}

func buildTree(name, path string, n vfs.Node) *TreeNode {
	node := &TreeNode{Name: name, Path: path}

	switch n := n.(type) {
	case *vfs.Directory:
		node.Type = "directory"
		for _, e := range n.Entries() {
			childPath := vfs.Join(path, e.Name)
			if _, ok := e.Node.(*vfs.Directory); ok {
				childPath += vfs.Separator
			}
			node.Children = append(node.Children, buildTree(e.Name, childPath, e.Node))
		}
	case *vfs.File:
		node.Type = "file"
		node.URL = n.URL
		node.Size = len(n.Content)
	}
	return node
}

// baseName returns the last name of a path, or "/" for the root.
func baseName(path string) string {
	trimmed := strings.TrimSuffix(path, vfs.Separator)
	if trimmed == "" {
		return vfs.Separator
	}
	return trimmed[strings.LastIndex(trimmed, vfs.Separator)+1:]
}
