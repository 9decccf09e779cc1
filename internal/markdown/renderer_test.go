package markdown

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer()

	out, err := r.Render("README.md", "# Hello World\n\nThis is a *test*.")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "<h1") || !strings.Contains(out, "Hello World</h1>") {
		t.Error("expected H1 tag containing 'Hello World' in HTML")
	}
	if !strings.Contains(out, "<em>test</em>") {
		t.Error("expected italicized test in HTML")
	}
}

func TestRenderMarkdownDropsRawHTML(t *testing.T) {
	out, err := NewRenderer().Markdown("<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("Markdown failed: %v", err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw html must not pass through: %s", out)
	}
}

func TestRenderSource(t *testing.T) {
	out, err := NewRenderer().Render("main.go", "package main\n")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !strings.Contains(out, "chroma") {
		t.Errorf("expected highlighted output, got %s", out)
	}
}

func TestRenderPlain(t *testing.T) {
	out, err := NewRenderer().Render("notes", "a < b")
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if out != "<pre>a &lt; b</pre>" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestIsMarkdown(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a.md", true},
		{"A.MARKDOWN", true},
		{"a.txt", false},
		{"md", false},
	}
	for _, tt := range tests {
		if got := IsMarkdown(tt.name); got != tt.want {
			t.Errorf("IsMarkdown(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
