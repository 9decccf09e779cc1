package shell

import (
	"errors"
	"fmt"
	"strings"

	"github.com/CageChen/webshell/internal/vfs"
)

// ErrUnknownCommand is reported to observers for names missing from the command table.
var ErrUnknownCommand = errors.New("unknown command")

// HelpURL is where help points for further questions.
const HelpURL = "https://github.com/lpatalas/lpatalas.github.io/issues"

func builtins() map[string]Command {
	return map[string]Command{
		"cat":  cat,
		"cd":   cd,
		"cls":  cls,
		"echo": echo,
		"exit": exit,
		"help": help,
		"ls":   ls,
		"open": open,
		"pwd":  pwd,
		"tree": tree,
	}
}

func usage(name, args string) error {
	return fmt.Errorf("usage: %s %s", name, args)
}

// cd changes directory; a file carrying a link is followed instead.
func cd(sh *Shell, args []string, res *Result) error {
	if len(args) > 1 {
		return usage("cd", "[path]")
	}
	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	node, err := sh.cursor.Resolve(target)
	if err != nil {
		return err
	}
	if f, ok := node.Node.(*vfs.File); ok && f.HasLink() {
		res.Redirect = f.URL
		return nil
	}
	return sh.cursor.SetCurrentPath(target)
}

func cls(sh *Shell, args []string, res *Result) error {
	res.Clear = true
	return nil
}

func echo(sh *Shell, args []string, res *Result) error {
	res.HTML = "<pre>" + escape(strings.Join(args, " ")) + "</pre>"
	return nil
}

func exit(sh *Shell, args []string, res *Result) error {
	res.Exit = true
	return nil
}

func help(sh *Shell, args []string, res *Result) error {
	res.HTML = fmt.Sprintf(
		`Available commands: %s.<br>If you need more help then create an issue here: <a href="%s">%s</a>`,
		escape(strings.Join(sh.Commands(), ", ")), HelpURL, HelpURL)
	return nil
}

// ls lists a directory in insertion order: directories with a trailing
// slash, linked files as anchors.
func ls(sh *Shell, args []string, res *Result) error {
	if len(args) > 1 {
		return usage("ls", "[path]")
	}
	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	dir, err := sh.cursor.ResolveDirectory(target)
	if err != nil {
		return err
	}

	items := make([]string, 0, dir.Dir.Len())
	for _, e := range dir.Dir.Entries() {
		items = append(items, entryHTML(e))
	}
	res.HTML = lines(items)
	return nil
}

func entryHTML(e vfs.Entry) string {
	switch n := e.Node.(type) {
	case *vfs.Directory:
		return escape(e.Name) + "/"
	case *vfs.File:
		if n.HasLink() {
			return fmt.Sprintf(`<a href="%s">%s</a>`, escape(n.URL), escape(e.Name))
		}
	}
	return escape(e.Name)
}

// cat renders the content of one or more files.
func cat(sh *Shell, args []string, res *Result) error {
	if len(args) == 0 {
		return usage("cat", "path...")
	}

	var out strings.Builder
	for _, arg := range args {
		node, err := sh.cursor.Resolve(arg)
		if err != nil {
			return err
		}
		f, ok := node.Node.(*vfs.File)
		if !ok {
			return fmt.Errorf("Is a directory: %s", node.Path)
		}
		rendered, err := sh.renderer.Render(node.Path, f.Content)
		if err != nil {
			return fmt.Errorf("cannot render %s: %w", node.Path, err)
		}
		out.WriteString(rendered)
	}
	res.HTML = out.String()
	return nil
}

// open follows the link of a file.
func open(sh *Shell, args []string, res *Result) error {
	if len(args) != 1 {
		return usage("open", "path")
	}
	node, err := sh.cursor.Resolve(args[0])
	if err != nil {
		return err
	}
	f, ok := node.Node.(*vfs.File)
	if !ok || !f.HasLink() {
		return fmt.Errorf("Not a link: %s", node.Path)
	}
	res.Redirect = f.URL
	return nil
}

func pwd(sh *Shell, args []string, res *Result) error {
	res.HTML = escape(sh.Cwd())
	return nil
}

// tree prints the subtree below a directory with box-drawing indentation.
func tree(sh *Shell, args []string, res *Result) error {
	if len(args) > 1 {
		return usage("tree", "[path]")
	}
	target := ""
	if len(args) == 1 {
		target = args[0]
	}

	dir, err := sh.cursor.ResolveDirectory(target)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString(escape(dir.Path))
	b.WriteString("\n")
	writeTree(&b, dir.Dir, "")
	res.HTML = "<pre>" + b.String() + "</pre>"
	return nil
}

func writeTree(b *strings.Builder, dir *vfs.Directory, indent string) {
	entries := dir.Entries()
	for i, e := range entries {
		branch, next := "├── ", "│   "
		if i == len(entries)-1 {
			branch, next = "└── ", "    "
		}
		b.WriteString(indent + branch + entryHTML(e) + "\n")
		if sub, ok := e.Node.(*vfs.Directory); ok {
			writeTree(b, sub, indent+next)
		}
	}
}
