package markdown

import (
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		contains []string
	}{
		{
			name:     "heading and emphasis",
			in:       "# Graph Theory\n\nThis is **important**.",
			contains: []string{"<h1", "Graph Theory", "<strong>important</strong>"},
		},
		{
			name:     "gfm table",
			in:       "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "plain image keeps alt",
			in:       `![diagram](https://cdn.example.com/g.png)`,
			contains: []string{`<img src="https://cdn.example.com/g.png" alt="diagram"/>`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.in)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render(%q) = %q, missing %q", tt.in, got, want)
				}
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t"} {
		if got := Render(in); got != "" {
			t.Errorf("Render(%q) = %q, want empty", in, got)
		}
	}
}

func TestRenderCaptionedImage(t *testing.T) {
	got := Render(`![!A directed graph](https://cdn.example.com/graph.png)`)
	if !strings.Contains(got, `<figure><img src="https://cdn.example.com/graph.png"/><figcaption>A directed graph</figcaption></figure>`) {
		t.Errorf("captioned image not wrapped in figure: %q", got)
	}
	if strings.Contains(got, "<p><figure>") {
		t.Errorf("figure should be unwrapped from its paragraph: %q", got)
	}
}

func TestPlaintext(t *testing.T) {
	got := Plaintext("# Title\n\nSome **bold** text and a [link](https://example.com).")
	if strings.ContainsAny(got, "<>") {
		t.Errorf("Plaintext left markup behind: %q", got)
	}
	for _, want := range []string{"Title", "bold", "link"} {
		if !strings.Contains(got, want) {
			t.Errorf("Plaintext() = %q, missing %q", got, want)
		}
	}
	if strings.Contains(got, "  ") {
		t.Errorf("Plaintext should collapse whitespace: %q", got)
	}
}
