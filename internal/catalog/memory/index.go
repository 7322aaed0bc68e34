// Package memory is an in-process catalog index: it embeds and stores the
// corpus, answers similarity queries with metadata predicates, and exposes
// full-corpus enumeration. Reload swaps the snapshot atomically so
// concurrent readers always see a consistent corpus.
package memory

import (
	"context"
	"fmt"
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
	"github.com/shoplens/discovery/internal/domain/constraint"
)

// Source supplies the product corpus.
type Source interface {
	Load(ctx context.Context) ([]domain.Product, error)
}

// Index is the in-memory catalog index.
type Index struct {
	source Source
	embed  domain.Embedder // nil disables similarity search
	logger *zap.Logger

	mu   sync.RWMutex
	snap *snapshot
}

// snapshot is an immutable corpus view. vectors is nil when embeddings
// could not be produced; the index then reports unavailable and callers
// degrade to their lexical path.
type snapshot struct {
	products []domain.Product
	vectors  [][]float32
}

// New creates an index. Call Load before serving queries.
func New(source Source, embed domain.Embedder, logger *zap.Logger) *Index {
	return &Index{source: source, embed: embed, logger: logger}
}

// Load reads the corpus from the source, embeds every product's search
// text, and swaps the snapshot. An embedding failure is not fatal: the new
// corpus is installed without vectors and similarity queries report
// unavailable until the next successful reload.
func (ix *Index) Load(ctx context.Context) error {
	products, err := ix.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	snap := &snapshot{products: products}
	if ix.embed != nil && len(products) > 0 {
		vectors, embErr := ix.embedCorpus(ctx, products)
		if embErr != nil {
			ix.logger.Warn("Corpus embedding failed, similarity search disabled until next reload",
				zap.Int("products", len(products)), zap.Error(embErr))
		} else {
			snap.vectors = vectors
		}
	}

	ix.mu.Lock()
	ix.snap = snap
	ix.mu.Unlock()

	ix.logger.Info("Catalog snapshot installed",
		zap.Int("products", len(products)),
		zap.Bool("vectors", snap.vectors != nil),
	)
	return nil
}

func (ix *Index) embedCorpus(ctx context.Context, products []domain.Product) ([][]float32, error) {
	texts := make([]string, len(products))
	for i, p := range products {
		texts[i] = p.SearchText
	}

	var res domain.BatchEmbeddingResult
	var err error
	if be, ok := ix.embed.(domain.BatchEmbedder); ok {
		res, err = be.BatchEmbed(ctx, texts)
	} else {
		res, err = domain.BatchFallback(ctx, ix.embed, texts)
	}
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(res.Embeddings) != len(products) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d products",
			len(res.Embeddings), len(products))
	}

	for i := range res.Embeddings {
		normalize(res.Embeddings[i])
	}
	return res.Embeddings, nil
}

// Query embeds the text and ranks predicate-passing products by cosine
// similarity. Results are sorted by descending score; ties keep corpus
// order. Supported index-level predicates: numeric price range, exact
// color/brand/category match, availability.
func (ix *Index) Query(
	ctx context.Context, text string, k int, cons constraint.Set,
) ([]candidate.Candidate, error) {
	snap := ix.snapshot()
	if snap == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	if ix.embed == nil || snap.vectors == nil {
		return nil, domain.ErrIndexUnavailable
	}

	res, err := ix.embed.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %w", domain.ErrIndexUnavailable, err)
	}
	query := res.Embedding
	normalize(query)

	cands := make([]candidate.Candidate, 0, k)
	for i, p := range snap.products {
		if !cons.Matches(p) {
			continue
		}
		cands = append(cands, candidate.Candidate{
			Product: p,
			Score:   dot(snap.vectors[i], query),
		})
	}

	candidate.SortByScore(cands)
	if len(cands) > k {
		cands = cands[:k]
	}
	return cands, nil
}

// All returns the current corpus snapshot in load order.
func (ix *Index) All(_ context.Context) ([]domain.Product, error) {
	snap := ix.snapshot()
	if snap == nil {
		return nil, domain.ErrCatalogNotLoaded
	}
	return snap.products, nil
}

// Ready reports whether similarity queries can be served.
func (ix *Index) Ready() bool {
	snap := ix.snapshot()
	return snap != nil && snap.vectors != nil && ix.embed != nil
}

// Count returns the corpus size, 0 before the first load.
func (ix *Index) Count() int {
	snap := ix.snapshot()
	if snap == nil {
		return 0
	}
	return len(snap.products)
}

func (ix *Index) snapshot() *snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.snap
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func normalize(v []float32) {
	var sum float64
	for _, f := range v {
		sum += float64(f) * float64(f)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
