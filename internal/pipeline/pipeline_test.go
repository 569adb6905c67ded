package pipeline

import (
	"context"
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()

	tests := []struct {
		name     string
		markdown string
		want     []string
	}{
		{
			name:     "heading and paragraph",
			markdown: "# Title\n\nSome text.",
			want:     []string{"<h1 id=\"title\">Title</h1>", "<p>Some text.</p>"},
		},
		{
			name:     "gfm table",
			markdown: "| a | b |\n|---|---|\n| 1 | 2 |",
			want:     []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "fenced code block",
			markdown: "```go\nfunc main() {}\n```",
			want:     []string{"<pre"},
		},
		{
			name:     "document shell",
			markdown: "hello",
			want:     []string{"<!DOCTYPE html>", `<meta charset="utf-8">`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := conv.ToHTML(context.Background(), tt.markdown)
			if err != nil {
				t.Fatalf("ToHTML() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("ToHTML() output missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestToHTML_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	conv := NewGoldmarkConverter()
	if _, err := conv.ToHTML(ctx, "# x"); err == nil {
		t.Fatal("ToHTML() with cancelled context returned nil error")
	}
}

func TestInjectCSS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		css  string
		want string
	}{
		{
			name: "into head",
			html: "<html><head><title>t</title></head><body></body></html>",
			css:  "p{color:red}",
			want: "<style>p{color:red}</style></head>",
		},
		{
			name: "after body when no head",
			html: "<body class=\"x\"><p>hi</p></body>",
			css:  "p{}",
			want: "<body class=\"x\"><style>p{}</style>",
		},
		{
			name: "prepended to bare fragment",
			html: "<p>hi</p>",
			css:  "p{}",
			want: "<style>p{}</style><p>hi</p>",
		},
		{
			name: "style escape is neutralized",
			html: "<p>hi</p>",
			css:  "p{}</style><script>",
			want: `<\/style>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := InjectCSS(tt.html, tt.css)
			if !strings.Contains(got, tt.want) {
				t.Errorf("InjectCSS() = %q, missing %q", got, tt.want)
			}
		})
	}
}

func TestInjectCSS_EmptyCSSIsNoop(t *testing.T) {
	t.Parallel()

	html := "<p>hi</p>"
	if got := InjectCSS(html, ""); got != html {
		t.Errorf("InjectCSS(html, \"\") = %q, want unchanged input", got)
	}
}
