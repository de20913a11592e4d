package ai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appcfg "github.com/eduspace/core/internal/config"
)

func TestSelectProvider(t *testing.T) {
	cfg := appcfg.AIConfig{
		Providers: []appcfg.AIProvider{
			{ID: "gem", Type: "gemini", Enabled: false},
			{ID: "oai", Type: "openai", Enabled: true},
			{ID: "ant", Type: "anthropic", Enabled: true},
		},
	}

	if got := selectProvider(cfg); got == nil || got.ID != "oai" {
		t.Errorf("expected first enabled provider oai, got %+v", got)
	}

	cfg.SummaryModel = &appcfg.AIModelAssignment{ProviderID: "ant"}
	if got := selectProvider(cfg); got == nil || got.ID != "ant" {
		t.Errorf("expected pinned provider ant, got %+v", got)
	}

	// Pin to a disabled provider falls back to the first enabled one.
	cfg.SummaryModel = &appcfg.AIModelAssignment{ProviderID: "gem"}
	if got := selectProvider(cfg); got == nil || got.ID != "oai" {
		t.Errorf("disabled pin should fall back to oai, got %+v", got)
	}

	if got := selectProvider(appcfg.AIConfig{}); got != nil {
		t.Errorf("no providers should yield nil, got %+v", got)
	}
}

func TestCandidateModels(t *testing.T) {
	provider := &appcfg.AIProvider{DefaultModel: "default-model"}

	tests := []struct {
		name string
		cfg  appcfg.AIConfig
		want []string
	}{
		{
			name: "ranked list with duplicates and blanks",
			cfg: appcfg.AIConfig{
				SummaryModelCandidates: []string{"m1", " m2 ", "", "m1", "m3"},
			},
			want: []string{"m1", "m2", "m3"},
		},
		{
			name: "pinned model collapses the list",
			cfg: appcfg.AIConfig{
				SummaryModel:           &appcfg.AIModelAssignment{Model: "pinned"},
				SummaryModelCandidates: []string{"m1", "m2"},
			},
			want: []string{"pinned"},
		},
		{
			name: "empty list falls back to provider default",
			cfg:  appcfg.AIConfig{},
			want: []string{"default-model"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := candidateModels(tt.cfg, provider)
			if len(got) != len(tt.want) {
				t.Fatalf("candidateModels() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("candidate %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestProbeBoundedOnHungEndpoint(t *testing.T) {
	hung := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server can detect the client disconnect and
		// cancel the request context; otherwise hung.Close() blocks forever.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer hung.Close()

	orig := probeTimeout
	probeTimeout = 100 * time.Millisecond
	defer func() { probeTimeout = orig }()

	client := newCompatClient(&appcfg.AIProvider{APIKey: "k", Endpoint: hung.URL}, "m1")
	done := make(chan error, 1)
	go func() { done <- client.Probe(context.Background()) }()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("probe against an unresponsive endpoint should fail")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("probe did not return within its deadline")
	}
}

func TestClassifyProviderError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want failureKind
	}{
		{"nil", nil, failUnknown},
		{"quota", errors.New("429: RESOURCE_EXHAUSTED: quota exceeded"), failQuota},
		{"rate limit", errors.New("rate limit reached for requests"), failQuota},
		{"bad key", errors.New("API key not valid"), failAuth},
		{"unauthorized", errors.New("401 unauthorized"), failAuth},
		{"safety", errors.New("response blocked by safety settings"), failContentFiltered},
		{"filtered", errors.New("content_filter triggered"), failContentFiltered},
		{"timeout", errors.New("context deadline exceeded"), failNetwork},
		{"deadline sentinel", context.DeadlineExceeded, failNetwork},
		{"dns", errors.New("dial tcp: lookup host: no such host"), failNetwork},
		{"other", errors.New("something odd happened"), failUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyProviderError(tt.err); got != tt.want {
				t.Errorf("classifyProviderError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestNormalizeProviderType(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Gemini", "gemini"},
		{" OpenAI_Compatible ", "openai-compatible"},
		{"open ai", "openai"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := normalizeProviderType(tt.in); got != tt.want {
			t.Errorf("normalizeProviderType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeOpenAIBaseURL(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"https://api.example.com", "https://api.example.com/v1"},
		{"https://api.example.com/v1", "https://api.example.com/v1"},
		{"https://api.example.com/v1/", "https://api.example.com/v1"},
	}
	for _, tt := range tests {
		if got := normalizeOpenAIBaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeOpenAIBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeOpenAICompatibleEndpoint(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "https://api.openai.com"},
		{"https://llm.internal/v1", "https://llm.internal"},
		{"https://llm.internal/", "https://llm.internal"},
	}
	for _, tt := range tests {
		if got := normalizeOpenAICompatibleEndpoint(tt.in); got != tt.want {
			t.Errorf("normalizeOpenAICompatibleEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
