// Package retrieval implements hybrid product retrieval: similarity search
// with metadata predicates, in-process post-filtering, and a lexical
// keyword-overlap fallback.
package retrieval

import (
	"context"

	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
	"github.com/shoplens/discovery/internal/metrics"
)

// Service is the hybrid retriever.
type Service struct {
	index     Index
	corpus    Corpus
	vocab     Vocabulary
	overfetch int
	logger    *zap.Logger
}

// New creates a hybrid retriever. overfetch scales the index fetch size
// relative to topK to survive post-filtering attrition.
func New(index Index, corpus Corpus, vocab Vocabulary, overfetch int, logger *zap.Logger) *Service {
	if overfetch < 1 {
		overfetch = 2
	}
	return &Service{index: index, corpus: corpus, vocab: vocab, overfetch: overfetch, logger: logger}
}

// Search runs the retrieval pipeline and returns at most topK candidates
// in descending score order. An index failure never propagates: it is
// treated as zero candidates, which routes the query to the lexical
// fallback. An empty result is a valid outcome, not an error.
func (s *Service) Search(ctx context.Context, query string, topK int) ([]candidate.Candidate, error) {
	if topK <= 0 {
		topK = 1
	}

	voc, err := s.vocab.Get(ctx)
	if err != nil {
		// Extraction degrades to an empty constraint set.
		s.logger.Warn("Vocabulary unavailable, skipping constraint extraction", zap.Error(err))
		voc = domain.Vocabulary{}
	}
	cons := Extract(query, voc)

	cands, err := s.index.Query(ctx, query, s.overfetch*topK, cons)
	if err != nil {
		s.logger.Warn("Similarity query failed, degrading to lexical fallback",
			zap.String("query", query), zap.Error(err))
		metrics.SearchFallbackTotal.WithLabelValues("index_error").Inc()
		cands = nil
	}

	// Post-filter defends against an index that ignores unsupported
	// predicates or matches loosely.
	filtered := cands[:0]
	for _, c := range cands {
		if cons.Matches(c.Product) {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) > topK {
		filtered = filtered[:topK]
	}

	if len(filtered) > 0 {
		return filtered, nil
	}

	if err == nil {
		metrics.SearchFallbackTotal.WithLabelValues("no_candidates").Inc()
	}
	return s.lexicalFallback(ctx, query, topK)
}

// lexicalFallback ranks the whole corpus by token overlap. It guarantees a
// non-empty result whenever any lexical overlap exists, regardless of the
// similarity index's state.
func (s *Service) lexicalFallback(ctx context.Context, query string, topK int) ([]candidate.Candidate, error) {
	products, err := s.corpus.All(ctx)
	if err != nil {
		s.logger.Warn("Corpus enumeration failed for lexical fallback", zap.Error(err))
		return nil, nil
	}
	return lexicalRank(query, products, topK), nil
}
