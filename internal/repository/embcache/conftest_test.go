package embcache

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/db"
	"github.com/shoplens/discovery/internal/domain"
)

// --- Mocks ---

type mockEmbedder struct {
	result     domain.EmbeddingResult
	err        error
	batchErr   error
	batchCalls int
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return m.result, m.err
}

// BatchEmbed returns m.result's vector for every text; token usage scales
// with the number of texts sent upstream.
func (m *mockEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	m.batchCalls++
	if m.batchErr != nil {
		return domain.BatchEmbeddingResult{}, m.batchErr
	}
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = m.result.Embedding
	}
	return domain.BatchEmbeddingResult{
		Embeddings:   embeddings,
		PromptTokens: m.result.PromptTokens * len(texts),
		TotalTokens:  m.result.TotalTokens * len(texts),
	}, nil
}

// mockKV is a map-backed store. Entries are seeded directly to simulate
// hits; getErr/setErr force failures.
type mockKV struct {
	entries map[string][]byte
	getErr  error
	setErr  error
	puts    int
}

func (m *mockKV) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if v, ok := m.entries[key]; ok {
		return v, nil
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKV) Set(_ context.Context, key string, value []byte) error {
	m.puts++
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = value
	return nil
}

func newTestCachedEmbedder(t *testing.T, inner *mockEmbedder) (*CachedEmbedder, *mockKV) {
	t.Helper()
	kv := &mockKV{entries: map[string][]byte{}}
	return New(inner, kv, nil, zap.NewNop()), kv
}
