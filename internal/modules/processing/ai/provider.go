package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"
	"time"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	appcfg "github.com/eduspace/core/internal/config"
	"github.com/google/generative-ai-go/genai"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"
	jetai "go.jetify.com/ai"
	jetapi "go.jetify.com/ai/api"
	jetanthropic "go.jetify.com/ai/provider/anthropic"
	jetopenai "go.jetify.com/ai/provider/openai"
	gapioption "google.golang.org/api/option"
)

const (
	generateMaxOutputTokens = 1024
	probePrompt             = "Reply with OK."
	generateTimeout         = 60 * time.Second
)

// probeTimeout bounds the liveness probe. The probe runs while the model
// session lock is held, so it must never inherit an unbounded deadline.
var probeTimeout = 10 * time.Second

// llmClient is a model session bound to one provider and one model identifier.
type llmClient interface {
	// Probe issues a minimal liveness request.
	Probe(ctx context.Context) error
	// Generate returns the model's text output for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)
	Close()
}

// newClient constructs a client for the provider bound to modelID.
func newClient(ctx context.Context, provider *appcfg.AIProvider, modelID string) (llmClient, error) {
	if provider == nil {
		return nil, errors.New("AI provider is nil")
	}
	if strings.TrimSpace(provider.APIKey) == "" {
		return nil, errors.New("AI provider api key is empty")
	}
	if strings.TrimSpace(modelID) == "" {
		modelID = strings.TrimSpace(provider.DefaultModel)
	}
	if modelID == "" {
		return nil, errors.New("no model identifier configured")
	}

	switch normalizeProviderType(provider.Type) {
	case "gemini", "google":
		return newGeminiClient(ctx, provider, modelID)
	case "anthropic":
		return newJetClient(provider, modelID, true)
	case "openai-compatible", "openaicompatible":
		return newCompatClient(provider, modelID), nil
	default:
		return newJetClient(provider, modelID, false)
	}
}

func normalizeProviderType(raw string) string {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.ReplaceAll(t, "_", "-")
	t = strings.ReplaceAll(t, " ", "")
	return t
}

// geminiClient wraps the Google Generative AI SDK.
type geminiClient struct {
	client *genai.Client
	model  string
}

func newGeminiClient(ctx context.Context, provider *appcfg.AIProvider, modelID string) (*geminiClient, error) {
	opts := []gapioption.ClientOption{
		gapioption.WithAPIKey(strings.TrimSpace(provider.APIKey)),
	}
	if endpoint := strings.TrimSpace(provider.Endpoint); endpoint != "" {
		opts = append(opts, gapioption.WithEndpoint(endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &geminiClient{client: client, model: modelID}, nil
}

func (g *geminiClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(8)
	_, err := model.GenerateContent(ctx, genai.Text(probePrompt))
	return err
}

func (g *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	model := g.client.GenerativeModel(g.model)
	model.SetMaxOutputTokens(generateMaxOutputTokens)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				full.WriteString(string(text))
			}
		}
	}
	out := strings.TrimSpace(full.String())
	if out == "" {
		return "", errors.New("empty response from model")
	}
	return out, nil
}

func (g *geminiClient) Close() {
	_ = g.client.Close()
}

// jetClient routes OpenAI and Anthropic through the jetify abstraction.
type jetClient struct {
	model jetapi.LanguageModel
}

func newJetClient(provider *appcfg.AIProvider, modelID string, anthropic bool) (*jetClient, error) {
	apiKey := strings.TrimSpace(provider.APIKey)
	endpoint := strings.TrimSpace(provider.Endpoint)

	if anthropic {
		opts := []anthropicoption.RequestOption{
			anthropicoption.WithAPIKey(apiKey),
			anthropicoption.WithMaxRetries(0),
		}
		if endpoint != "" {
			opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(endpoint, "/")))
		}
		client := anthropicclient.NewClient(opts...)
		return &jetClient{model: jetanthropic.NewLanguageModel(modelID, jetanthropic.WithClient(client))}, nil
	}

	opts := []openaioption.RequestOption{
		openaioption.WithAPIKey(apiKey),
		openaioption.WithMaxRetries(0),
	}
	if normalized := normalizeOpenAIBaseURL(endpoint); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	client := openaiclient.NewClient(opts...)
	return &jetClient{model: jetopenai.NewLanguageModel(modelID, jetopenai.WithClient(client))}, nil
}

func (j *jetClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(probePrompt)}},
		jetai.WithModel(j.model),
		jetai.WithMaxOutputTokens(8),
	)
	return err
}

func (j *jetClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, generateTimeout)
	defer cancel()

	resp, err := jetai.GenerateText(
		ctx,
		[]jetapi.Message{&jetapi.UserMessage{Content: jetapi.ContentFromText(prompt)}},
		jetai.WithModel(j.model),
		jetai.WithMaxOutputTokens(generateMaxOutputTokens),
	)
	if err != nil {
		return "", err
	}
	return extractTextFromAIResponse(resp)
}

func (j *jetClient) Close() {}

// compatClient talks to any OpenAI-compatible chat completions endpoint.
type compatClient struct {
	endpoint string
	apiKey   string
	model    string
	http     *http.Client
}

func newCompatClient(provider *appcfg.AIProvider, modelID string) *compatClient {
	return &compatClient{
		endpoint: normalizeOpenAICompatibleEndpoint(provider.Endpoint),
		apiKey:   strings.TrimSpace(provider.APIKey),
		model:    modelID,
		http:     &http.Client{Timeout: generateTimeout},
	}
}

func (c *compatClient) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	_, err := c.chat(ctx, probePrompt, 8)
	return err
}

func (c *compatClient) Generate(ctx context.Context, prompt string) (string, error) {
	return c.chat(ctx, prompt, generateMaxOutputTokens)
}

func (c *compatClient) Close() {}

func (c *compatClient) chat(ctx context.Context, prompt string, maxTokens int) (string, error) {
	body, _ := json.Marshal(map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
		"max_tokens": maxTokens,
	})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("openai-compatible error (%d): %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", err
	}
	if result.Error != nil && strings.TrimSpace(result.Error.Message) != "" {
		return "", fmt.Errorf("openai-compatible error: %s", result.Error.Message)
	}
	if len(result.Choices) == 0 || strings.TrimSpace(result.Choices[0].Message.Content) == "" {
		return "", errors.New("empty response from model")
	}
	return result.Choices[0].Message.Content, nil
}

func extractTextFromAIResponse(resp *jetapi.Response) (string, error) {
	if resp == nil {
		return "", errors.New("empty response from model")
	}
	var full strings.Builder
	for _, block := range resp.Content {
		textBlock, ok := block.(*jetapi.TextBlock)
		if !ok || textBlock.Text == "" {
			continue
		}
		full.WriteString(textBlock.Text)
	}
	text := strings.TrimSpace(full.String())
	if text == "" {
		return "", errors.New("empty response from model")
	}
	return text, nil
}

func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

func normalizeOpenAICompatibleEndpoint(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "https://api.openai.com"
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimSuffix(strings.TrimRight(base, "/"), "/v1")
	}

	path := strings.TrimRight(parsed.Path, "/")
	path = strings.TrimSuffix(path, "/v1")
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}

// selectProvider picks the pinned provider when assigned, otherwise the first
// enabled one.
func selectProvider(cfg appcfg.AIConfig) *appcfg.AIProvider {
	var pinned string
	if cfg.SummaryModel != nil {
		pinned = strings.TrimSpace(cfg.SummaryModel.ProviderID)
	}

	if pinned != "" {
		for _, provider := range cfg.Providers {
			if provider.Enabled && strings.TrimSpace(provider.ID) == pinned {
				p := provider
				return &p
			}
		}
	}
	for _, provider := range cfg.Providers {
		if provider.Enabled {
			p := provider
			return &p
		}
	}
	return nil
}

// candidateModels returns the ranked model identifiers to probe. A pinned
// assignment collapses the list to a single entry.
func candidateModels(cfg appcfg.AIConfig, provider *appcfg.AIProvider) []string {
	if cfg.SummaryModel != nil {
		if model := strings.TrimSpace(cfg.SummaryModel.Model); model != "" {
			return []string{model}
		}
	}

	out := make([]string, 0, len(cfg.SummaryModelCandidates)+1)
	seen := map[string]struct{}{}
	for _, candidate := range cfg.SummaryModelCandidates {
		candidate = strings.TrimSpace(candidate)
		if candidate == "" {
			continue
		}
		if _, ok := seen[candidate]; ok {
			continue
		}
		seen[candidate] = struct{}{}
		out = append(out, candidate)
	}
	if len(out) == 0 && provider != nil && strings.TrimSpace(provider.DefaultModel) != "" {
		out = append(out, strings.TrimSpace(provider.DefaultModel))
	}
	return out
}

// classifyProviderError buckets a generation error for logging. Matching is on
// message text because the provider SDKs do not share error types.
func classifyProviderError(err error) failureKind {
	if err == nil {
		return failUnknown
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "quota") || strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "resource_exhausted") || strings.Contains(msg, "429"):
		return failQuota
	case strings.Contains(msg, "api key") || strings.Contains(msg, "unauthorized") ||
		strings.Contains(msg, "permission") || strings.Contains(msg, "401") || strings.Contains(msg, "403"):
		return failAuth
	case strings.Contains(msg, "safety") || strings.Contains(msg, "blocked") ||
		strings.Contains(msg, "content_filter") || strings.Contains(msg, "filtered"):
		return failContentFiltered
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline") ||
		strings.Contains(msg, "connection") || strings.Contains(msg, "no such host") ||
		strings.Contains(msg, "unreachable") || errors.Is(err, context.DeadlineExceeded):
		return failNetwork
	default:
		return failUnknown
	}
}
