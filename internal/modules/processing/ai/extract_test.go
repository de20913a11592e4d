package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTextFromContentStream(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "simple literals",
			content: "BT /F1 12 Tf (Hello) Tj (World) Tj ET",
			want:    "Hello World ",
		},
		{
			name:    "escaped characters",
			content: `(Line one\nLine two) Tj (paren \( inside \)) Tj`,
			want:    "Line one\nLine two paren ( inside ) ",
		},
		{
			name:    "nested parentheses",
			content: "(outer (inner) tail) Tj",
			want:    "outer (inner) tail ",
		},
		{
			name:    "blank literals are dropped",
			content: "(   ) Tj (kept) Tj",
			want:    "kept ",
		},
		{
			name:    "no literals",
			content: "BT ET q Q",
			want:    "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := textFromContentStream([]byte(tt.content)); got != tt.want {
				t.Errorf("textFromContentStream() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct{ in, want string }{
		{"  a   b \n\t c ", "a b c"},
		{"", ""},
		{"single", "single"},
	}
	for _, tt := range tests {
		if got := normalizeWhitespace(tt.in); got != tt.want {
			t.Errorf("normalizeWhitespace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchAndExtractFailurePaths(t *testing.T) {
	source := NewTextSource(nil)

	if _, ok := source.FetchAndExtract(""); ok {
		t.Error("empty url should not extract")
	}

	notFound := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer notFound.Close()
	if _, ok := source.FetchAndExtract(notFound.URL + "/missing.pdf"); ok {
		t.Error("404 response should not extract")
	}

	garbage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not a pdf"))
	}))
	defer garbage.Close()
	if _, ok := source.FetchAndExtract(garbage.URL + "/doc.pdf"); ok {
		t.Error("non-pdf payload should not extract")
	}
}
