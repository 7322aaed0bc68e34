// Package vocab derives the known attribute vocabulary from the corpus,
// memoized for the lifetime of a corpus snapshot.
package vocab

import (
	"context"
	"fmt"
	"sync"

	"github.com/shoplens/discovery/internal/domain"
)

// Corpus enumerates the product corpus.
type Corpus interface {
	All(ctx context.Context) ([]domain.Product, error)
}

// Service is the vocabulary cache. The build is lazy and guarded so
// concurrent first access runs the corpus scan once. The cache has no
// subscription to the catalog: callers must Invalidate after a reload.
type Service struct {
	corpus Corpus

	mu  sync.Mutex
	voc *domain.Vocabulary
}

// New creates a vocabulary cache.
func New(corpus Corpus) *Service {
	return &Service{corpus: corpus}
}

// Get returns the cached vocabulary, building it on first use.
func (s *Service) Get(ctx context.Context) (domain.Vocabulary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.voc != nil {
		return *s.voc, nil
	}

	products, err := s.corpus.All(ctx)
	if err != nil {
		return domain.Vocabulary{}, fmt.Errorf("scan corpus: %w", err)
	}

	voc := domain.BuildVocabulary(products)
	s.voc = &voc
	return voc, nil
}

// Invalidate drops the cached vocabulary so the next Get rescans the corpus.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.voc = nil
	s.mu.Unlock()
}
