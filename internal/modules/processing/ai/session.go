package ai

import (
	"context"
	"errors"
	"sync"

	appcfg "github.com/eduspace/core/internal/config"
	"go.uber.org/zap"
)

var errNoLiveModel = errors.New("no candidate model passed its liveness probe")

// ModelSession holds the memoized live model. Initialization is lazy: the
// first summarize call after startup (or after Invalidate) probes the ranked
// candidate list and keeps the first model that answers. Later calls reuse the
// session without probing again.
type ModelSession struct {
	mu     sync.Mutex
	client llmClient
	// ActiveModelID of the memoized client; empty while uninitialized.
	activeModelID string
	logger        *zap.Logger
}

func NewModelSession(logger *zap.Logger) *ModelSession {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ModelSession{logger: logger}
}

// ActiveModelID returns the memoized model identifier, or "" when no session
// is live.
func (s *ModelSession) ActiveModelID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeModelID
}

// Acquire returns the live client, probing candidates when no session is
// memoized. Exactly one initialization attempt happens per call; a fully
// failed probe run leaves the session empty so a later call may try again
// (e.g. after a provider outage ends).
func (s *ModelSession) Acquire(ctx context.Context, cfg appcfg.AIConfig) (llmClient, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, s.activeModelID, nil
	}
	return s.initLocked(ctx, cfg)
}

// Reinitialize drops the current session and performs one fresh probe run.
// Used after a generation failure: the failing call gets at most this single
// re-initialization before degrading to the fallback.
func (s *ModelSession) Reinitialize(ctx context.Context, cfg appcfg.AIConfig) (llmClient, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropLocked()
	return s.initLocked(ctx, cfg)
}

// Invalidate clears the memoized session. The next Acquire probes again.
func (s *ModelSession) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropLocked()
}

func (s *ModelSession) dropLocked() {
	if s.client != nil {
		s.client.Close()
	}
	s.client = nil
	s.activeModelID = ""
}

func (s *ModelSession) initLocked(ctx context.Context, cfg appcfg.AIConfig) (llmClient, string, error) {
	provider := selectProvider(cfg)
	if provider == nil {
		return nil, "", errors.New("no enabled AI provider configured")
	}

	candidates := candidateModels(cfg, provider)
	if len(candidates) == 0 {
		return nil, "", errors.New("no candidate models configured")
	}

	for _, modelID := range candidates {
		client, err := newClient(ctx, provider, modelID)
		if err != nil {
			s.logger.Warn("model client construction failed",
				zap.String("model", modelID), zap.Error(err))
			continue
		}
		if err := client.Probe(ctx); err != nil {
			s.logger.Warn("model liveness probe failed",
				zap.String("model", modelID),
				zap.String("kind", string(classifyProviderError(err))),
				zap.Error(err))
			client.Close()
			continue
		}

		// First live candidate wins; the rest are never probed.
		s.client = client
		s.activeModelID = modelID
		s.logger.Info("model session initialized", zap.String("model", modelID))
		return client, modelID, nil
	}

	return nil, "", errNoLiveModel
}
