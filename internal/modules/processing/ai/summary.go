package ai

import (
	"context"
	"strings"

	appcfg "github.com/eduspace/core/internal/config"
	"github.com/eduspace/core/internal/models"
	"github.com/eduspace/core/internal/pkg/taskqueue"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const TaskTypeSummary = "ai:document-summary"

// documentStore is the persistence boundary of the pipeline: load one
// document, save (or clear) its summary.
type documentStore interface {
	LoadDocument(id string) (*models.DocumentModel, error)
	SaveSummary(id string, summary *string) error
}

type gormDocumentStore struct {
	db *gorm.DB
}

func (g *gormDocumentStore) LoadDocument(id string) (*models.DocumentModel, error) {
	var doc models.DocumentModel
	if err := g.db.First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func (g *gormDocumentStore) SaveSummary(id string, summary *string) error {
	return g.db.Model(&models.DocumentModel{}).Where("id = ?", id).
		Update("summary", summary).Error
}

// Summarize runs the full pipeline for one document. The terminal states are:
// the cached summary, a freshly generated one, or a deterministic fallback.
// Only a request with no text and no title fails with ErrEmptyInput; provider
// trouble of any kind degrades instead of erroring.
func (s *Service) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResult, error) {
	doc, err := s.docs.LoadDocument(req.DocumentID)
	if err != nil {
		return nil, err
	}

	cfg, err := s.cfgSvc.Get()
	if err != nil {
		return nil, err
	}
	if !cfg.AI.EnableSummary {
		return nil, ErrSummaryDisabled
	}

	if !req.ForceNew && doc.Summary != nil && strings.TrimSpace(*doc.Summary) != "" {
		return &SummarizeResult{Summary: *doc.Summary, Provenance: ProvenanceCached}, nil
	}
	if req.ForceNew && doc.Summary != nil {
		if err := s.docs.SaveSummary(doc.ID, nil); err != nil {
			return nil, err
		}
	}

	title := strings.TrimSpace(doc.Title)
	text := strings.TrimSpace(req.SuppliedText)
	if text == "" && doc.FileType == models.FileTypePDF && strings.TrimSpace(doc.FileURL) != "" {
		if extracted, ok := s.source.FetchAndExtract(doc.FileURL); ok {
			text = extracted
		}
	}

	if text == "" {
		if title == "" {
			return nil, ErrEmptyInput
		}
		summary := buildGenericFallback(title)
		if err := s.docs.SaveSummary(doc.ID, &summary); err != nil {
			return nil, err
		}
		return &SummarizeResult{Summary: summary, Provenance: ProvenanceFallback}, nil
	}

	outcome := s.generate(ctx, cfg.AI, title, text)
	if outcome.ok {
		if err := s.docs.SaveSummary(doc.ID, &outcome.text); err != nil {
			return nil, err
		}
		return &SummarizeResult{Summary: outcome.text, Provenance: ProvenanceAI}, nil
	}

	s.logger.Warn("summary generation degraded to fallback",
		zap.String("document", doc.ID),
		zap.String("kind", string(outcome.reason)),
		zap.String("detail", outcome.detail))

	summary := buildExtractiveFallback(title, text)
	if err := s.docs.SaveSummary(doc.ID, &summary); err != nil {
		return nil, err
	}
	return &SummarizeResult{Summary: summary, Provenance: ProvenanceFallback}, nil
}

// generate calls the live model. A failed call gets exactly one session
// re-initialization (the provider may have dropped the memoized model) before
// the outcome degrades to a fallback.
func (s *Service) generate(ctx context.Context, aiCfg appcfg.AIConfig, title, text string) generateOutcome {
	prompt := buildSummaryPrompt(title, text)

	client, modelID, err := s.session.Acquire(ctx, aiCfg)
	if err != nil {
		return outcomeFallback(classifyProviderError(err), "model unavailable: "+err.Error())
	}

	out, err := client.Generate(ctx, prompt)
	if err == nil {
		if trimmed := strings.TrimSpace(out); trimmed != "" {
			return outcomeOK(trimmed)
		}
		err = errEmptyResponse
	}

	kind := classifyProviderError(err)
	s.logger.Warn("generation failed, reinitializing model session",
		zap.String("model", modelID),
		zap.String("kind", string(kind)),
		zap.Error(err))

	client, _, err = s.session.Reinitialize(ctx, aiCfg)
	if err != nil {
		return outcomeFallback(kind, "reinitialization failed: "+err.Error())
	}
	out, err = client.Generate(ctx, prompt)
	if err != nil {
		return outcomeFallback(classifyProviderError(err), err.Error())
	}
	trimmed := strings.TrimSpace(out)
	if trimmed == "" {
		return outcomeFallback(failUnknown, "empty response after reinitialization")
	}
	return outcomeOK(trimmed)
}

// MaybeAutoGenerate schedules a background summary for a new document when
// auto generation is switched on. Errors are logged, never returned; upload
// flows must not fail because of summarization.
func (s *Service) MaybeAutoGenerate(documentID string) {
	cfg, err := s.cfgSvc.Get()
	if err != nil || cfg == nil || !cfg.AI.EnableSummary || !cfg.AI.EnableAutoGenerateSummary {
		return
	}
	if _, err := s.EnqueueSummary(context.Background(), documentID); err != nil {
		s.logger.Warn("auto summary enqueue failed",
			zap.String("document", documentID), zap.Error(err))
	}
}

// EnqueueSummary creates a background summary task, deduplicated per document.
func (s *Service) EnqueueSummary(ctx context.Context, documentID string) (*taskqueue.Task, error) {
	documentID = strings.TrimSpace(documentID)
	if documentID == "" {
		return nil, ErrEmptyInput
	}

	payload := SummaryTaskPayload{DocumentID: documentID}
	task, err := s.taskSvc.Enqueue(ctx, TaskTypeSummary, payload, documentID, documentID)
	if err != nil {
		return nil, err
	}

	if task.Status == taskqueue.TaskPending {
		go s.executeSummaryTask(context.Background(), task.ID, payload)
	}
	return task, nil
}

func (s *Service) executeSummaryTask(ctx context.Context, taskID string, payload SummaryTaskPayload) {
	_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskRunning, nil, "")

	result, err := s.Summarize(ctx, SummarizeRequest{DocumentID: payload.DocumentID})
	if err != nil {
		msg := err.Error()
		if err == gorm.ErrRecordNotFound {
			msg = "document not found"
		}
		_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskFailed, nil, msg)
		return
	}

	_ = s.taskSvc.UpdateStatus(ctx, taskID, taskqueue.TaskCompleted, map[string]string{
		"summary":    result.Summary,
		"provenance": string(result.Provenance),
	}, "")
}
