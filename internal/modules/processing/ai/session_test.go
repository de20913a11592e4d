package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	appcfg "github.com/eduspace/core/internal/config"
)

// fakeModelServer is an OpenAI-compatible endpoint that fails or answers per
// model identifier and records every probed model in order.
type fakeModelServer struct {
	mu      sync.Mutex
	calls   []string
	failing map[string]bool
}

func (f *fakeModelServer) handler(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Model string `json:"model"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	f.mu.Lock()
	f.calls = append(f.calls, req.Model)
	failing := f.failing[req.Model]
	f.mu.Unlock()

	if failing {
		http.Error(w, `{"error":{"message":"model overloaded"}}`, http.StatusServiceUnavailable)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": "OK"}},
		},
	})
}

func (f *fakeModelServer) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func sessionTestConfig(endpoint string, candidates ...string) appcfg.AIConfig {
	return appcfg.AIConfig{
		Providers: []appcfg.AIProvider{
			{ID: "compat", Type: "openai-compatible", APIKey: "test-key", Endpoint: endpoint, Enabled: true},
		},
		SummaryModelCandidates: candidates,
		EnableSummary:          true,
	}
}

func TestSessionProbeStopsAtFirstSuccess(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{"m1": true}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	session := NewModelSession(nil)
	cfg := sessionTestConfig(srv.URL, "m1", "m2", "m3")

	client, modelID, err := session.Acquire(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if client == nil {
		t.Fatal("Acquire() returned nil client")
	}
	if modelID != "m2" {
		t.Errorf("active model = %q, want m2", modelID)
	}
	if session.ActiveModelID() != "m2" {
		t.Errorf("ActiveModelID() = %q, want m2", session.ActiveModelID())
	}

	calls := fake.recorded()
	if len(calls) != 2 || calls[0] != "m1" || calls[1] != "m2" {
		t.Errorf("probe calls = %v, want [m1 m2]", calls)
	}
}

func TestSessionAcquireMemoizes(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	session := NewModelSession(nil)
	cfg := sessionTestConfig(srv.URL, "m1")

	if _, _, err := session.Acquire(context.Background(), cfg); err != nil {
		t.Fatalf("first Acquire() error = %v", err)
	}
	if _, _, err := session.Acquire(context.Background(), cfg); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}

	if calls := fake.recorded(); len(calls) != 1 {
		t.Errorf("memoized session should probe once, probed %d times", len(calls))
	}
}

func TestSessionReinitializeProbesAgain(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	session := NewModelSession(nil)
	cfg := sessionTestConfig(srv.URL, "m1")

	if _, _, err := session.Acquire(context.Background(), cfg); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if _, _, err := session.Reinitialize(context.Background(), cfg); err != nil {
		t.Fatalf("Reinitialize() error = %v", err)
	}

	if calls := fake.recorded(); len(calls) != 2 {
		t.Errorf("reinitialize should probe again, got %d probes", len(calls))
	}
}

func TestSessionAllCandidatesFail(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{"m1": true, "m2": true}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	session := NewModelSession(nil)
	cfg := sessionTestConfig(srv.URL, "m1", "m2")

	if _, _, err := session.Acquire(context.Background(), cfg); err == nil {
		t.Fatal("Acquire() should fail when no candidate answers")
	}
	if session.ActiveModelID() != "" {
		t.Errorf("failed init must leave the session empty, got %q", session.ActiveModelID())
	}

	// A later call probes again instead of memoizing the failure.
	if calls := fake.recorded(); len(calls) != 2 {
		t.Errorf("expected both candidates probed, got %v", calls)
	}
}

func TestSessionInvalidate(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	session := NewModelSession(nil)
	cfg := sessionTestConfig(srv.URL, "m1")

	if _, _, err := session.Acquire(context.Background(), cfg); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	session.Invalidate()
	if session.ActiveModelID() != "" {
		t.Error("Invalidate() should clear the active model")
	}
}
