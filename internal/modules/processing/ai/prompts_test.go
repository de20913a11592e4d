package ai

import (
	"strings"
	"testing"
)

func TestBuildSummaryPromptSections(t *testing.T) {
	prompt := buildSummaryPrompt("Intro to Graphs", "Graphs are made of nodes and edges.")

	if !strings.Contains(prompt, "Document title: Intro to Graphs") {
		t.Errorf("prompt is missing the document title:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Write at least 500 words") {
		t.Errorf("prompt is missing the length target:\n%s", prompt)
	}

	sections := []string{
		"1. Overview",
		"2. Key Concepts",
		"3. Learning Objectives",
		"4. Important Details",
		"5. Practical Applications",
		"6. Conclusion",
	}
	last := -1
	for _, section := range sections {
		idx := strings.Index(prompt, section)
		if idx < 0 {
			t.Fatalf("prompt is missing section %q", section)
		}
		if idx < last {
			t.Errorf("section %q appears out of order", section)
		}
		last = idx
	}
}

func TestBuildSummaryPromptDefaultTitle(t *testing.T) {
	prompt := buildSummaryPrompt("   ", "some text")
	if !strings.Contains(prompt, "Document title: Untitled Document") {
		t.Errorf("blank title should fall back to Untitled Document:\n%s", prompt)
	}
}

func TestBuildSummaryPromptClampsText(t *testing.T) {
	long := strings.Repeat("a", promptTextBudget+100)
	prompt := buildSummaryPrompt("Big Doc", long)

	if strings.Contains(prompt, long) {
		t.Error("oversized text was not clamped")
	}
	want := strings.Repeat("a", promptTextBudget) + truncationMarker
	if !strings.Contains(prompt, want) {
		t.Error("clamped text should end with the truncation marker")
	}
}

func TestClampText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		budget int
		want   string
	}{
		{"under budget", "hello", 10, "hello"},
		{"exactly at budget", "hello", 5, "hello"},
		{"over budget", "hello world", 5, "hello" + truncationMarker},
		{"empty", "", 5, ""},
		{"multibyte runes", "日本語のテキスト", 3, "日本語" + truncationMarker},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampText(tt.text, tt.budget); got != tt.want {
				t.Errorf("clampText(%q, %d) = %q, want %q", tt.text, tt.budget, got, tt.want)
			}
		})
	}
}
