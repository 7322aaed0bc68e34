package retrieval

import (
	"context"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
	"github.com/shoplens/discovery/internal/domain/constraint"
)

// Index is the similarity-search contract of the catalog index.
type Index interface {
	Query(ctx context.Context, text string, k int, cons constraint.Set) ([]candidate.Candidate, error)
}

// Corpus enumerates every product, used by the lexical fallback.
type Corpus interface {
	All(ctx context.Context) ([]domain.Product, error)
}

// Vocabulary supplies the known attribute values for constraint extraction.
type Vocabulary interface {
	Get(ctx context.Context) (domain.Vocabulary, error)
}
