package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
	"github.com/shoplens/discovery/internal/domain/conversation"
	"github.com/shoplens/discovery/internal/domain/intent"
)

// --- Mocks ---

type mockRouter struct {
	result intent.Intent
}

func (m *mockRouter) Classify(_ context.Context, _ string) intent.Intent {
	return m.result
}

type mockRetriever struct {
	cands     []candidate.Candidate
	err       error
	called    bool
	lastQuery string
	panicMsg  string
}

func (m *mockRetriever) Search(_ context.Context, query string, _ int) ([]candidate.Candidate, error) {
	m.called = true
	m.lastQuery = query
	if m.panicMsg != "" {
		panic(m.panicMsg)
	}
	return m.cands, m.err
}

type mockChat struct {
	text string
	conf float64
}

func (m *mockChat) Respond(_ string, _ conversation.Context) (string, float64) {
	return m.text, m.conf
}

type mockDescriber struct {
	description string
	err         error
	called      bool
}

func (m *mockDescriber) Describe(_ context.Context, _ []byte) (string, error) {
	m.called = true
	return m.description, m.err
}

func redShoes() candidate.Candidate {
	return candidate.Candidate{
		Product: domain.Product{
			ID: "p1", Name: "Red Running Shoes", Price: 45,
			Description: "Lightweight running shoes",
		},
		Score: 0.9,
	}
}

func newTestService(
	router *mockRouter, retriever *mockRetriever, chat *mockChat, describer ImageDescriber,
) *Service {
	return New(router, retriever, chat, describer, 3, time.Second, zap.NewNop())
}

// --- Tests ---

func TestHandle_GeneralChat(t *testing.T) {
	chat := &mockChat{text: "Hello! How can I help?", conf: 0.9}
	retriever := &mockRetriever{}
	svc := newTestService(&mockRouter{result: intent.GeneralChat}, retriever, chat, nil)

	env := svc.Handle(context.Background(), Request{Text: "hello"})
	if env.Intent != intent.GeneralChat {
		t.Errorf("intent = %s, want general_chat", env.Intent)
	}
	if env.Response != "Hello! How can I help?" {
		t.Errorf("response = %q", env.Response)
	}
	if env.Confidence != 0.9 {
		t.Errorf("confidence = %v, want 0.9", env.Confidence)
	}
	if len(env.Products) != 0 {
		t.Errorf("products = %v, want empty", env.Products)
	}
	if retriever.called {
		t.Error("chat path must not touch the retriever")
	}
}

func TestHandle_ProductSearchSuccess(t *testing.T) {
	retriever := &mockRetriever{cands: []candidate.Candidate{redShoes()}}
	svc := newTestService(&mockRouter{result: intent.ProductSearch}, retriever, &mockChat{}, nil)

	env := svc.Handle(context.Background(), Request{Text: "red shoes under $50"})
	if env.Intent != intent.ProductSearch {
		t.Errorf("intent = %s, want product_search", env.Intent)
	}
	if env.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", env.Confidence)
	}
	if !strings.Contains(env.Response, "1. **Red Running Shoes** - $45.00") {
		t.Errorf("response = %q, want rendered recommendation", env.Response)
	}
	if len(env.Products) != 1 || env.Products[0].ID != "p1" {
		t.Errorf("products = %v, want [p1]", env.Products)
	}
	if retriever.lastQuery != "red shoes under $50" {
		t.Errorf("query = %q", retriever.lastQuery)
	}
}

func TestHandle_ProductSearchNoResults(t *testing.T) {
	svc := newTestService(&mockRouter{result: intent.ProductSearch}, &mockRetriever{}, &mockChat{}, nil)

	env := svc.Handle(context.Background(), Request{Text: "quantum telescope"})
	if env.Confidence != 0.3 {
		t.Errorf("confidence = %v, want 0.3 for no results", env.Confidence)
	}
	if !strings.Contains(env.Response, "couldn't find any products") {
		t.Errorf("response = %q, want no-results message", env.Response)
	}
	if len(env.Products) != 0 {
		t.Errorf("products = %v, want empty", env.Products)
	}
}

func TestHandle_ProductSearchError(t *testing.T) {
	retriever := &mockRetriever{err: errors.New("backend exploded")}
	svc := newTestService(&mockRouter{result: intent.ProductSearch}, retriever, &mockChat{}, nil)

	env := svc.Handle(context.Background(), Request{Text: "shoes"})
	if env.Intent != intent.ProductSearch {
		t.Errorf("intent = %s, want product_search", env.Intent)
	}
	if env.Confidence != 0.3 {
		t.Errorf("confidence = %v, want 0.3", env.Confidence)
	}
	if !strings.Contains(env.Response, "error") {
		t.Errorf("response = %q, want error message", env.Response)
	}
}

func TestHandle_ComparisonWrapsSearch(t *testing.T) {
	retriever := &mockRetriever{cands: []candidate.Candidate{redShoes()}}
	svc := newTestService(&mockRouter{result: intent.ProductComparison}, retriever, &mockChat{}, nil)

	env := svc.Handle(context.Background(), Request{Text: "compare running shoes"})
	if env.Intent != intent.ProductComparison {
		t.Errorf("intent = %s, want product_comparison", env.Intent)
	}
	if !strings.HasPrefix(env.Response, "Here are some products for comparison") {
		t.Errorf("response = %q, want comparison preamble", env.Response)
	}
	if !strings.Contains(env.Response, "Red Running Shoes") {
		t.Errorf("response = %q, want rendered products", env.Response)
	}
	if !strings.Contains(env.Response, "What would you like to know more about?") {
		t.Errorf("response = %q, want follow-up question", env.Response)
	}
}

func TestHandle_ComparisonNoResults(t *testing.T) {
	svc := newTestService(&mockRouter{result: intent.ProductComparison}, &mockRetriever{}, &mockChat{}, nil)

	env := svc.Handle(context.Background(), Request{Text: "compare gadgets"})
	if env.Intent != intent.ProductComparison {
		t.Errorf("intent = %s, want product_comparison", env.Intent)
	}
	if !strings.Contains(env.Response, "couldn't find products to compare") {
		t.Errorf("response = %q", env.Response)
	}
}

func TestHandle_ImageSearchWithoutImage(t *testing.T) {
	retriever := &mockRetriever{}
	describer := &mockDescriber{}
	svc := newTestService(&mockRouter{result: intent.ImageSearch}, retriever, &mockChat{}, describer)

	env := svc.Handle(context.Background(), Request{Text: "search by my photo"})
	if env.Intent != intent.ImageSearch {
		t.Errorf("intent = %s, want image_search", env.Intent)
	}
	if env.Confidence != 0.3 {
		t.Errorf("confidence = %v, want 0.3", env.Confidence)
	}
	if !strings.Contains(env.Response, "need an image") {
		t.Errorf("response = %q, want clarification", env.Response)
	}
	if retriever.called {
		t.Error("missing image must not trigger retrieval")
	}
	if describer.called {
		t.Error("missing image must not trigger description")
	}
}

func TestHandle_ImageSearchDerivesQuery(t *testing.T) {
	retriever := &mockRetriever{cands: []candidate.Candidate{redShoes()}}
	describer := &mockDescriber{description: "a pair of red athletic sneakers"}
	svc := newTestService(&mockRouter{result: intent.ImageSearch}, retriever, &mockChat{}, describer)

	env := svc.Handle(context.Background(), Request{Text: "find this", Image: []byte{0xFF, 0xD8}})
	if env.Intent != intent.ImageSearch {
		t.Errorf("intent = %s, want image_search", env.Intent)
	}
	if !describer.called {
		t.Fatal("describer not called")
	}
	if !strings.Contains(retriever.lastQuery, "sneaker") {
		t.Errorf("derived query = %q, want sneaker token", retriever.lastQuery)
	}
	if !strings.Contains(retriever.lastQuery, "red") {
		t.Errorf("derived query = %q, want color token", retriever.lastQuery)
	}
	if !strings.HasPrefix(env.Response, "Based on your image") {
		t.Errorf("response = %q, want image hint prefix", env.Response)
	}
}

func TestHandle_ImageSearchDescriberFailureUsesGenericQuery(t *testing.T) {
	retriever := &mockRetriever{}
	describer := &mockDescriber{err: domain.ErrDescriberUnavailable}
	svc := newTestService(&mockRouter{result: intent.ImageSearch}, retriever, &mockChat{}, describer)

	svc.Handle(context.Background(), Request{Image: []byte{0xFF}})
	if retriever.lastQuery != genericImageQuery {
		t.Errorf("query = %q, want generic fallback %q", retriever.lastQuery, genericImageQuery)
	}
}

func TestHandle_ImageOnlyRequestRoutesToImageSearch(t *testing.T) {
	retriever := &mockRetriever{}
	describer := &mockDescriber{description: "blue jacket"}
	// Router would say general_chat for empty text; it must not be asked.
	svc := newTestService(&mockRouter{result: intent.GeneralChat}, retriever, &mockChat{}, describer)

	env := svc.Handle(context.Background(), Request{Image: []byte{0x01}})
	if env.Intent != intent.ImageSearch {
		t.Errorf("intent = %s, want image_search for image-only request", env.Intent)
	}
	if !describer.called {
		t.Error("describer not called")
	}
}

func TestHandle_PanicBecomesErrorEnvelope(t *testing.T) {
	retriever := &mockRetriever{panicMsg: "index corrupted"}
	svc := newTestService(&mockRouter{result: intent.ProductSearch}, retriever, &mockChat{}, nil)

	env := svc.Handle(context.Background(), Request{Text: "shoes"})
	if env.Intent != intent.Error {
		t.Errorf("intent = %s, want error", env.Intent)
	}
	if env.Confidence != 0 {
		t.Errorf("confidence = %v, want 0", env.Confidence)
	}
	if env.Response == "" {
		t.Error("error envelope has no user-facing message")
	}
	if len(env.Products) != 0 {
		t.Errorf("products = %v, want empty", env.Products)
	}
}

func TestHandle_NilDescriberDegradesToGenericQuery(t *testing.T) {
	retriever := &mockRetriever{}
	svc := newTestService(&mockRouter{result: intent.ImageSearch}, retriever, &mockChat{}, nil)

	svc.Handle(context.Background(), Request{Image: []byte{0x01}})
	if retriever.lastQuery != genericImageQuery {
		t.Errorf("query = %q, want %q", retriever.lastQuery, genericImageQuery)
	}
}
