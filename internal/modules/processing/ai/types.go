package ai

import "errors"

// Provenance records where a returned summary came from.
type Provenance string

const (
	ProvenanceCached   Provenance = "cached"
	ProvenanceAI       Provenance = "ai-generated"
	ProvenanceFallback Provenance = "fallback"
)

// SummarizeRequest describes a single summarization call.
type SummarizeRequest struct {
	DocumentID string
	// SuppliedText bypasses fetch and extraction when non-empty.
	SuppliedText string
	// ForceNew discards the cached summary and regenerates.
	ForceNew bool
}

// SummarizeResult is the terminal output of the pipeline. Summary is always
// non-empty on a nil error.
type SummarizeResult struct {
	Summary    string
	Provenance Provenance
}

var (
	// ErrEmptyInput means no text and no title could be assembled. It is the
	// only pipeline failure that surfaces to the caller; everything else
	// degrades to a fallback summary.
	ErrEmptyInput = errors.New("nothing to summarize")

	ErrSummaryDisabled = errors.New("summarization is disabled")

	errEmptyResponse = errors.New("empty response from model")
)

// failureKind classifies provider errors for logging. The classification never
// changes control flow beyond "soft failure, use the fallback".
type failureKind string

const (
	failQuota           failureKind = "quota"
	failAuth            failureKind = "auth"
	failContentFiltered failureKind = "content_filtered"
	failNetwork         failureKind = "network"
	failUnknown         failureKind = "unknown"
)

// generateOutcome is the explicit result of the primary generation path.
type generateOutcome struct {
	ok     bool
	text   string
	reason failureKind
	detail string
}

func outcomeOK(text string) generateOutcome {
	return generateOutcome{ok: true, text: text}
}

func outcomeFallback(reason failureKind, detail string) generateOutcome {
	return generateOutcome{reason: reason, detail: detail}
}

// SummaryTaskPayload is the task payload for background summary generation.
type SummaryTaskPayload struct {
	DocumentID string `json:"document_id"`
}

type modelInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type providerModelsResponse struct {
	ProviderID   string      `json:"provider_id"`
	ProviderName string      `json:"provider_name"`
	ProviderType string      `json:"provider_type"`
	Models       []modelInfo `json:"models"`
}

type testConnectionDTO struct {
	ProviderID string `json:"provider_id"`
	Type       string `json:"type"`
	APIKey     string `json:"api_key"`
	Endpoint   string `json:"endpoint"`
	Model      string `json:"model"`
}
