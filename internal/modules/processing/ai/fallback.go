package ai

import (
	"fmt"
	"strings"
)

const minSentenceLength = 15

// Fixed sentence allocation for the extractive fallback: the first three
// sentences describe key concepts, the next two become learning objectives,
// the next three important details. Short inputs shrink sections gracefully.
const (
	allocKeyConcepts = 3
	allocObjectives  = 2
	allocImportant   = 3
)

// buildExtractiveFallback assembles a templated summary from sentences of the
// source text. It never errors and never returns an empty string.
func buildExtractiveFallback(title, text string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Document"
	}

	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return buildGenericFallback(title)
	}

	take := func(n int) []string {
		if n > len(sentences) {
			n = len(sentences)
		}
		out := sentences[:n]
		sentences = sentences[n:]
		return out
	}

	keyConcepts := take(allocKeyConcepts)
	objectives := take(allocObjectives)
	important := take(allocImportant)

	var b strings.Builder
	fmt.Fprintf(&b, "## Overview\n\nThis document, \"%s\", covers the following material.\n\n", title)

	b.WriteString("## Key Concepts\n\n")
	writeSentenceList(&b, keyConcepts, "The document introduces its core ideas directly; review the source material for details.")

	b.WriteString("\n## Learning Objectives\n\n")
	if len(objectives) > 0 {
		b.WriteString("After studying this document, you should understand the following:\n\n")
		writeSentenceList(&b, objectives, "")
	} else {
		fmt.Fprintf(&b, "After studying this document, you should understand the main ideas of \"%s\".\n", title)
	}

	b.WriteString("\n## Important Details\n\n")
	writeSentenceList(&b, important, "See the source document for supporting details.")

	b.WriteString("\n## Practical Applications\n\n")
	fmt.Fprintf(&b, "Apply the concepts from \"%s\" to related exercises and coursework.\n", title)

	b.WriteString("\n## Conclusion\n\n")
	fmt.Fprintf(&b, "\"%s\" presents material worth careful study; this outline was generated from the document text itself.\n", title)

	return b.String()
}

// buildGenericFallback is the last-resort summary when no text is available.
// Built from the title alone, it makes no claims about content never seen.
func buildGenericFallback(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Document"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## Overview\n\nThis document covers material related to \"%s\".\n\n", title)
	fmt.Fprintf(&b, "## Key Concepts\n\nThe key concepts of \"%s\" are presented in the document itself.\n\n", title)
	fmt.Fprintf(&b, "## Learning Objectives\n\nAfter studying this document, you should be familiar with the topics of \"%s\".\n\n", title)
	b.WriteString("## Important Details\n\nRefer to the full document for specific details, examples and figures.\n\n")
	fmt.Fprintf(&b, "## Practical Applications\n\nThe material in \"%s\" can be applied to related coursework and exercises.\n\n", title)
	fmt.Fprintf(&b, "## Conclusion\n\nRead \"%s\" in full for a complete understanding; an automatic summary of its content was not available.\n", title)
	return b.String()
}

func writeSentenceList(b *strings.Builder, sentences []string, emptyLine string) {
	if len(sentences) == 0 {
		if emptyLine != "" {
			b.WriteString(emptyLine)
			b.WriteString("\n")
		}
		return
	}
	for _, s := range sentences {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}
}

// splitSentences breaks text on sentence terminators, dropping fragments too
// short to carry meaning.
func splitSentences(text string) []string {
	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		current.Reset()
		if len(s) >= minSentenceLength {
			sentences = append(sentences, s)
		}
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()
	return sentences
}
