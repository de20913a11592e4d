package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	appcfg "github.com/eduspace/core/internal/config"
	"github.com/eduspace/core/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fakeDocumentStore struct {
	mu    sync.Mutex
	docs  map[string]*models.DocumentModel
	saves int
}

func (f *fakeDocumentStore) LoadDocument(id string) (*models.DocumentModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *doc
	if doc.Summary != nil {
		v := *doc.Summary
		clone.Summary = &v
	}
	return &clone, nil
}

func (f *fakeDocumentStore) SaveSummary(id string, summary *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.saves++
	if summary == nil {
		doc.Summary = nil
		return nil
	}
	v := *summary
	doc.Summary = &v
	return nil
}

func (f *fakeDocumentStore) summaryOf(id string) *string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.docs[id].Summary
}

type fakeConfigSource struct {
	cfg *appcfg.FullConfig
}

func (f *fakeConfigSource) Get() (*appcfg.FullConfig, error) { return f.cfg, nil }

func summaryTestService(store *fakeDocumentStore, aiCfg appcfg.AIConfig) *Service {
	return &Service{
		docs:    store,
		cfgSvc:  &fakeConfigSource{cfg: &appcfg.FullConfig{AI: aiCfg}},
		session: NewModelSession(nil),
		source:  NewTextSource(nil),
		logger:  zap.NewNop(),
	}
}

func TestSummarizeCachedIdempotent(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	store := &fakeDocumentStore{docs: map[string]*models.DocumentModel{
		"doc-1": {Title: "Graph Theory Basics"},
	}}
	store.docs["doc-1"].ID = "doc-1"
	svc := summaryTestService(store, sessionTestConfig(srv.URL, "m1"))

	req := SummarizeRequest{DocumentID: "doc-1", SuppliedText: "Graphs consist of nodes and edges."}

	first, err := svc.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("first Summarize() error = %v", err)
	}
	if first.Provenance != ProvenanceAI {
		t.Fatalf("first call provenance = %q, want %q", first.Provenance, ProvenanceAI)
	}
	callsAfterFirst := len(fake.recorded())

	second, err := svc.Summarize(context.Background(), req)
	if err != nil {
		t.Fatalf("second Summarize() error = %v", err)
	}
	if second.Provenance != ProvenanceCached {
		t.Errorf("second call provenance = %q, want %q", second.Provenance, ProvenanceCached)
	}
	if second.Summary != first.Summary {
		t.Errorf("cached summary = %q, want the original %q", second.Summary, first.Summary)
	}
	if got := len(fake.recorded()); got != callsAfterFirst {
		t.Errorf("cached call hit the model: %d calls, want %d", got, callsAfterFirst)
	}
}

func TestSummarizeForceNewRegenerates(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	stale := "stale summary from the previous file"
	store := &fakeDocumentStore{docs: map[string]*models.DocumentModel{
		"doc-1": {Title: "Graph Theory Basics", Summary: &stale},
	}}
	store.docs["doc-1"].ID = "doc-1"
	svc := summaryTestService(store, sessionTestConfig(srv.URL, "m1"))

	result, err := svc.Summarize(context.Background(), SummarizeRequest{
		DocumentID:   "doc-1",
		SuppliedText: "Graphs consist of nodes and edges.",
		ForceNew:     true,
	})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if result.Provenance == ProvenanceCached {
		t.Error("force refresh must never report a cached summary")
	}
	if result.Summary == stale {
		t.Error("force refresh returned the stale summary")
	}
	if stored := store.summaryOf("doc-1"); stored == nil || *stored != result.Summary {
		t.Errorf("stored summary = %v, want the regenerated one", stored)
	}
	// The stale summary is cleared before regeneration, then overwritten.
	if store.saves < 2 {
		t.Errorf("expected a clear followed by a save, got %d writes", store.saves)
	}
}

func TestSummarizeMissingDocument(t *testing.T) {
	store := &fakeDocumentStore{docs: map[string]*models.DocumentModel{}}
	svc := summaryTestService(store, appcfg.AIConfig{EnableSummary: true})

	if _, err := svc.Summarize(context.Background(), SummarizeRequest{DocumentID: "ghost"}); err == nil {
		t.Fatal("missing document should error")
	}
}

func TestSummarizeDisabled(t *testing.T) {
	store := &fakeDocumentStore{docs: map[string]*models.DocumentModel{
		"doc-1": {Title: "Graphs"},
	}}
	store.docs["doc-1"].ID = "doc-1"
	svc := summaryTestService(store, appcfg.AIConfig{EnableSummary: false})

	_, err := svc.Summarize(context.Background(), SummarizeRequest{DocumentID: "doc-1"})
	if err != ErrSummaryDisabled {
		t.Fatalf("error = %v, want ErrSummaryDisabled", err)
	}
}

func TestSummarizeProviderFailureFallsBack(t *testing.T) {
	fake := &fakeModelServer{failing: map[string]bool{"m1": true}}
	srv := httptest.NewServer(http.HandlerFunc(fake.handler))
	defer srv.Close()

	store := &fakeDocumentStore{docs: map[string]*models.DocumentModel{
		"doc-1": {Title: "Graph Theory Basics"},
	}}
	store.docs["doc-1"].ID = "doc-1"
	svc := summaryTestService(store, sessionTestConfig(srv.URL, "m1"))

	result, err := svc.Summarize(context.Background(), SummarizeRequest{
		DocumentID:   "doc-1",
		SuppliedText: "Graphs consist of nodes and edges. Trees are acyclic connected graphs used everywhere.",
	})
	if err != nil {
		t.Fatalf("provider failure must degrade, got error %v", err)
	}
	if result.Provenance != ProvenanceFallback {
		t.Errorf("provenance = %q, want %q", result.Provenance, ProvenanceFallback)
	}
	if result.Summary == "" {
		t.Error("fallback summary must not be empty")
	}
	if stored := store.summaryOf("doc-1"); stored == nil || *stored != result.Summary {
		t.Error("fallback summary was not persisted")
	}
}
