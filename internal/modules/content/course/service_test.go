package course

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"simple title", "Introduction to Graphs", "introduction-to-graphs"},
		{"mixed case", "Advanced GO Programming", "advanced-go-programming"},
		{"punctuation collapses", "C++ & Rust: A Comparison!", "c-rust-a-comparison"},
		{"leading and trailing noise", "  --Data Structures--  ", "data-structures"},
		{"digits kept", "Algorithms 101", "algorithms-101"},
		{"unicode stripped", "数学 Basics", "basics"},
		{"empty title", "", "course"},
		{"only symbols", "!!!", "course"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
