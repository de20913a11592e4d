package ai

import (
	"fmt"
	"strings"
)

const (
	// promptTextBudget clamps document text before it enters the prompt. Keep
	// in sync across model tiers so cache entries stay comparable.
	promptTextBudget = 8000
	summaryMinWords  = 500
)

const summaryPromptTemplate = `You are an educational content expert. Create a comprehensive summary of the following document for students.

Document title: %s

Document content:
%s

Structure the summary into exactly these sections, in order:

1. Overview - what this document is about
2. Key Concepts - the main ideas and terms introduced
3. Learning Objectives - what a student should be able to do after studying this
4. Important Details - facts, figures and arguments worth remembering
5. Practical Applications - where and how this knowledge is used
6. Conclusion - the main takeaway

Write at least %d words. Use clear, student-friendly language. Do not invent facts that are not supported by the content.`

// buildSummaryPrompt combines title and clamped text into the generation
// prompt. Title and text always appear; the length target is always stated.
func buildSummaryPrompt(title, text string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Untitled Document"
	}
	return fmt.Sprintf(summaryPromptTemplate, title, clampText(text, promptTextBudget), summaryMinWords)
}
