package ai

import (
	"strings"
	"testing"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "basic terminators",
			text: "A graph has nodes and edges. Nodes represent entities! Edges represent relationships?",
			want: []string{
				"A graph has nodes and edges.",
				"Nodes represent entities!",
				"Edges represent relationships?",
			},
		},
		{
			name: "short fragments are dropped",
			text: "Yes. No. This sentence is long enough to keep.",
			want: []string{"This sentence is long enough to keep."},
		},
		{
			name: "trailing fragment without terminator",
			text: "First sentence here. A trailing clause with no period",
			want: []string{
				"First sentence here.",
				"A trailing clause with no period",
			},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitSentences(tt.text)
			if len(got) != len(tt.want) {
				t.Fatalf("splitSentences() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("sentence %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractiveFallbackIntroToGraphs(t *testing.T) {
	text := "A graph has nodes and edges. Nodes represent entities. Edges represent relationships."
	summary := buildExtractiveFallback("Intro to Graphs", text)

	if summary == "" {
		t.Fatal("fallback summary must never be empty")
	}
	if !strings.Contains(summary, "Intro to Graphs") {
		t.Error("summary should contain the document title")
	}
	if !strings.Contains(summary, "nodes") || !strings.Contains(summary, "edges") {
		t.Error("summary should reference the source sentences")
	}
	for _, section := range []string{
		"## Overview", "## Key Concepts", "## Learning Objectives",
		"## Important Details", "## Practical Applications", "## Conclusion",
	} {
		if !strings.Contains(summary, section) {
			t.Errorf("summary is missing section %q", section)
		}
	}
}

func TestExtractiveFallbackAllocation(t *testing.T) {
	text := "Sentence number one is long enough. Sentence number two is long enough. " +
		"Sentence number three is long enough. Sentence number four is long enough. " +
		"Sentence number five is long enough. Sentence number six is long enough. " +
		"Sentence number seven is long enough. Sentence number eight is long enough. " +
		"Sentence number nine is long enough."
	summary := buildExtractiveFallback("Allocation", text)

	concepts := sectionBody(t, summary, "## Key Concepts")
	if n := strings.Count(concepts, "- "); n != allocKeyConcepts {
		t.Errorf("key concepts got %d bullets, want %d", n, allocKeyConcepts)
	}
	objectives := sectionBody(t, summary, "## Learning Objectives")
	if n := strings.Count(objectives, "- "); n != allocObjectives {
		t.Errorf("learning objectives got %d bullets, want %d", n, allocObjectives)
	}
	details := sectionBody(t, summary, "## Important Details")
	if n := strings.Count(details, "- "); n != allocImportant {
		t.Errorf("important details got %d bullets, want %d", n, allocImportant)
	}
	if !strings.Contains(details, "Sentence number six") {
		t.Error("important details should hold sentences six through eight")
	}
}

func TestExtractiveFallbackFewSentences(t *testing.T) {
	// One sentence: key concepts absorbs it, later sections stay templated.
	summary := buildExtractiveFallback("Sparse", "Only one real sentence lives here.")
	if !strings.Contains(summary, "Only one real sentence lives here.") {
		t.Error("the single sentence should appear in the summary")
	}
	if !strings.Contains(summary, "## Conclusion") {
		t.Error("all sections must be present even with one sentence")
	}

	// Zero usable sentences degrade to the generic template.
	generic := buildExtractiveFallback("Sparse", "a. b. c.")
	if !strings.Contains(generic, "an automatic summary of its content was not available") {
		t.Error("zero sentences should produce the generic fallback")
	}
}

func TestGenericFallback(t *testing.T) {
	summary := buildGenericFallback("")
	if !strings.Contains(summary, "Untitled Document") {
		t.Error("empty title should fall back to Untitled Document")
	}
	if strings.Count(summary, "## ") != 6 {
		t.Errorf("generic fallback should have 6 sections, got %d", strings.Count(summary, "## "))
	}
}

// sectionBody returns the text between the given heading and the next one.
func sectionBody(t *testing.T, summary, heading string) string {
	t.Helper()
	start := strings.Index(summary, heading)
	if start < 0 {
		t.Fatalf("summary is missing section %q", heading)
	}
	rest := summary[start+len(heading):]
	if next := strings.Index(rest, "## "); next >= 0 {
		rest = rest[:next]
	}
	return rest
}
