// Package shell dispatches tokenized input lines to a fixed table of commands
// operating on the virtual tree.
package shell

import (
	"html"
	"sort"
	"strings"

	"github.com/CageChen/webshell/internal/cursor"
	"github.com/CageChen/webshell/internal/markdown"
	"github.com/CageChen/webshell/internal/tokenize"
	"github.com/CageChen/webshell/internal/vfs"
)

// Result is what a single input line produced.
type Result struct {
	Command  string `json:"command,omitempty"`
	HTML     string `json:"html"`
	Cwd      string `json:"cwd"`
	Clear    bool   `json:"clear,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	Exit     bool   `json:"exit,omitempty"`
	Failed   bool   `json:"failed,omitempty"`
}

// Command runs with the arguments after the command name and fills res.
type Command func(sh *Shell, args []string, res *Result) error

// Observer is told about every executed command.
type Observer interface {
	CommandExecuted(name string, err error)
}

// Shell is one terminal: a cursor over a tree and the command table. It is
// not safe for concurrent use.
type Shell struct {
	cursor   *cursor.Cursor
	renderer *markdown.Renderer
	commands map[string]Command
	observer Observer
}

// Option customizes a Shell.
type Option func(*Shell)

// WithObserver reports executed commands to o.
func WithObserver(o Observer) Option {
	return func(sh *Shell) { sh.observer = o }
}

// WithRenderer sets the renderer used by cat.
func WithRenderer(r *markdown.Renderer) Option {
	return func(sh *Shell) { sh.renderer = r }
}

// New creates a shell over tree whose current path is persisted in store.
func New(tree vfs.Tree, store cursor.Store, opts ...Option) *Shell {
	sh := &Shell{
		cursor:   cursor.New(tree, store),
		commands: builtins(),
	}
	for _, opt := range opts {
		opt(sh)
	}
	if sh.renderer == nil {
		sh.renderer = markdown.NewRenderer()
	}
	return sh
}

// Cwd returns the current directory.
func (sh *Shell) Cwd() string {
	return sh.cursor.CurrentPath()
}

// Cursor exposes the shell's cursor.
func (sh *Shell) Cursor() *cursor.Cursor {
	return sh.cursor
}

// Commands returns the command names in alphabetical order.
func (sh *Shell) Commands() []string {
	names := make([]string, 0, len(sh.commands))
	for name := range sh.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute tokenizes line and runs the named command. Command failures are
// rendered as the output text rather than returned.
func (sh *Shell) Execute(line string) Result {
	tokens := tokenize.Tokenize(line)
	if len(tokens) == 0 {
		return Result{Cwd: sh.Cwd()}
	}

	name, args := tokens[0], tokens[1:]
	res := Result{Command: name}

	cmd, ok := sh.commands[name]
	if !ok {
		res.HTML = escape("Unknown command: " + name)
		res.Failed = true
		res.Cwd = sh.Cwd()
		sh.observe(name, ErrUnknownCommand)
		return res
	}

	err := cmd(sh, args, &res)
	if err != nil {
		res = Result{Command: name, HTML: escape(err.Error()), Failed: true}
	}
	res.Cwd = sh.Cwd()
	sh.observe(name, err)
	return res
}

func (sh *Shell) observe(name string, err error) {
	if sh.observer != nil {
		sh.observer.CommandExecuted(name, err)
	}
}

func escape(s string) string {
	return html.EscapeString(s)
}

func lines(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("<div>")
		b.WriteString(item)
		b.WriteString("</div>")
	}
	return b.String()
}
