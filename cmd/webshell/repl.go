package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/CageChen/webshell/internal/config"
	"github.com/CageChen/webshell/internal/shell"
	"github.com/CageChen/webshell/internal/store"
	"github.com/CageChen/webshell/internal/vfs"
	"github.com/spf13/cobra"
	"golang.org/x/net/html"
)

// replScope keys the local terminal's cursor in a shared session store.
const replScope = "repl"

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Run the shell in this terminal.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		_, root, err := loadTree(cfg)
		if err != nil {
			return err
		}
		kv, err := openStore(cfg)
		if err != nil {
			return err
		}

		sh := shell.New(vfs.NewHolder(root), store.NewScoped(kv, replScope))
		return repl(sh, cfg.Prompt, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	config.Flags(replCmd.Flags())
}

// repl reads lines from in until EOF or exit and writes plain-text results.
func repl(sh *shell.Shell, prompt string, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s:%s$ ", prompt, sh.Cwd())
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		res := sh.Execute(scanner.Text())
		switch {
		case res.Exit:
			return nil
		case res.Clear:
			fmt.Fprint(out, "\033[H\033[2J")
		case res.Redirect != "":
			fmt.Fprintf(out, "-> %s\n", res.Redirect)
		}
		if text := plainText(res.HTML); text != "" {
			fmt.Fprintln(out, text)
		}
	}
}

// plainText strips markup from command output, breaking lines after block
// elements.
func plainText(fragment string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimRight(b.String(), "\n")
		case html.TextToken:
			b.Write(z.Text())
		case html.EndTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "div", "p", "pre", "li", "br", "tr",
				"h1", "h2", "h3", "h4", "h5", "h6":
				b.WriteByte('\n')
			}
		case html.StartTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				b.WriteByte('\n')
			}
		}
	}
}
