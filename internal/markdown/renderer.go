// Package markdown renders file content for display in the terminal: Goldmark
// with GFM extensions for markdown, Chroma highlighting for recognised source
// files, and escaped preformatted text for everything else.
package markdown

import (
	"bytes"
	"html"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Extensions treated as markdown.
var Extensions = []string{".md", ".markdown"}

const styleName = "monokai"

// Renderer turns file content into an HTML fragment.
type Renderer struct {
	md        goldmark.Markdown
	formatter *chromahtml.Formatter
	style     *chroma.Style
}

// NewRenderer creates a renderer with markdown extensions and syntax highlighting
func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(styleName),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithXHTML(),
		),
	)

	return &Renderer{
		md:        md,
		formatter: chromahtml.New(chromahtml.WithClasses(true)),
		style:     styles.Get(styleName),
	}
}

// IsMarkdown checks if a file name has a markdown extension
func IsMarkdown(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Render picks a rendering for content based on the file name.
func (r *Renderer) Render(name, content string) (string, error) {
	if IsMarkdown(name) {
		return r.Markdown(content)
	}
	if lexer := lexers.Match(name); lexer != nil {
		return r.highlight(lexer, content)
	}
	return Plain(content), nil
}

// Markdown converts markdown source to HTML. Raw HTML in the source is not
// passed through.
func (r *Renderer) Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) highlight(lexer chroma.Lexer, content string) (string, error) {
	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := r.formatter.Format(&buf, r.style, iterator); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Plain escapes text into a preformatted block.
func Plain(text string) string {
	return "<pre>" + html.EscapeString(text) + "</pre>"
}
