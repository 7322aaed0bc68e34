// Package dispatch maps a classified intent to its handler and assembles
// the uniform response envelope.
package dispatch

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
	"github.com/shoplens/discovery/internal/domain/intent"
	logpkg "github.com/shoplens/discovery/internal/logger"
	"github.com/shoplens/discovery/internal/usecase/assemble"
)

// Confidence heuristics per path. Ordinal signals, not calibrated
// probabilities.
const (
	confidenceResults  = 0.8
	confidenceDegraded = 0.3
)

const comparisonPreamble = "Here are some products for comparison based on your request:\n\n"

const comparisonFollowUp = "\nI can help you compare features, prices, or other aspects of these products. " +
	"What would you like to know more about?"

const imageRequiredMessage = "I need an image to perform image-based product search. " +
	"Please upload an image or describe what you're looking for in text."

const searchErrorMessage = "I encountered an error while searching for products. " +
	"Please try again with a different query."

const internalErrorMessage = "I encountered an unexpected error processing your request. Please try again."

// Service is the plan/dispatch layer.
type Service struct {
	router    Router
	retriever Retriever
	chat      Conversationalist
	describer ImageDescriber

	topK           int
	describeWindow time.Duration
	logger         *zap.Logger
}

// New creates the dispatch service. describer may be nil; image requests
// then degrade to the generic query.
func New(
	router Router,
	retriever Retriever,
	chat Conversationalist,
	describer ImageDescriber,
	topK int,
	describeWindow time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		router:         router,
		retriever:      retriever,
		chat:           chat,
		describer:      describer,
		topK:           topK,
		describeWindow: describeWindow,
		logger:         logger,
	}
}

// Handle classifies the request and routes it to a handler. It never
// panics through to the transport: any unexpected fault becomes a uniform
// error envelope with intent "error" and confidence 0.
func (s *Service) Handle(ctx context.Context, req Request) (env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			logpkg.FromContextOr(ctx, s.logger).Error("Handler panic recovered", zap.Any("panic", r))
			env = Envelope{
				Response:   internalErrorMessage,
				Products:   []domain.Product{},
				Intent:     intent.Error,
				Confidence: 0,
				Metadata:   map[string]any{"error": "internal"},
			}
		}
	}()

	in := s.classify(ctx, req)

	switch in {
	case intent.GeneralChat:
		return s.handleChat(req)
	case intent.ProductSearch:
		return s.handleSearch(ctx, req.Text)
	case intent.ProductComparison:
		return s.handleComparison(ctx, req.Text)
	case intent.ImageSearch:
		return s.handleImage(ctx, req)
	default:
		// Closed enumeration; unreachable for classifier output.
		return s.handleChat(req)
	}
}

// classify routes an image-only request straight to image search; anything
// with text goes through the intent router.
func (s *Service) classify(ctx context.Context, req Request) intent.Intent {
	if req.Text == "" && len(req.Image) > 0 {
		return intent.ImageSearch
	}
	return s.router.Classify(ctx, req.Text)
}

func (s *Service) handleChat(req Request) Envelope {
	text, confidence := s.chat.Respond(req.Text, req.Context)
	return Envelope{
		Response:   text,
		Products:   []domain.Product{},
		Intent:     intent.GeneralChat,
		Confidence: confidence,
		Metadata:   map[string]any{"tool": "general_conversation"},
	}
}

func (s *Service) handleSearch(ctx context.Context, query string) Envelope {
	cands, err := s.retriever.Search(ctx, query, s.topK)
	if err != nil {
		s.logger.Error("Retrieval failed", zap.String("query", query), zap.Error(err))
		return Envelope{
			Response:   searchErrorMessage,
			Products:   []domain.Product{},
			Intent:     intent.ProductSearch,
			Confidence: confidenceDegraded,
			Metadata:   map[string]any{"tool": "text_product_search", "error": err.Error()},
		}
	}

	return s.searchEnvelope(intent.ProductSearch, query, cands)
}

func (s *Service) handleComparison(ctx context.Context, query string) Envelope {
	env := s.handleSearch(ctx, query)
	env.Intent = intent.ProductComparison

	if len(env.Products) > 0 {
		env.Response = comparisonPreamble + env.Response + comparisonFollowUp
	} else {
		env.Response = "I couldn't find products to compare. " +
			"Please try a more specific search term or describe what you'd like to compare."
	}
	return env
}

func (s *Service) handleImage(ctx context.Context, req Request) Envelope {
	if len(req.Image) == 0 {
		// Clarification, not an error; the retriever is never touched.
		return Envelope{
			Response:   imageRequiredMessage,
			Products:   []domain.Product{},
			Intent:     intent.ImageSearch,
			Confidence: confidenceDegraded,
			Metadata:   map[string]any{"tool": "image_product_search", "error": "no image provided"},
		}
	}

	description := s.describe(ctx, req.Image)
	query := deriveImageQuery(description)

	env := s.handleSearch(ctx, query)
	env.Intent = intent.ImageSearch
	env.Metadata["tool"] = "image_product_search"
	env.Metadata["image_description"] = description
	env.Metadata["derived_query"] = query
	if len(env.Products) > 0 {
		env.Response = "Based on your image, I searched for similar items.\n\n" + env.Response
	}
	return env
}

// describe calls the image collaborator with a bounded timeout. A failed
// or missing describer yields "" and the generic query downstream.
func (s *Service) describe(ctx context.Context, image []byte) string {
	if s.describer == nil {
		return ""
	}
	dctx, cancel := context.WithTimeout(ctx, s.describeWindow)
	defer cancel()

	description, err := s.describer.Describe(dctx, image)
	if err != nil {
		if !errors.Is(err, domain.ErrDescriberUnavailable) {
			s.logger.Warn("Image description failed", zap.Error(err))
		} else {
			s.logger.Warn("Image describer unavailable, using generic query", zap.Error(err))
		}
		return ""
	}
	return description
}

func (s *Service) searchEnvelope(in intent.Intent, query string, cands []candidate.Candidate) Envelope {
	if len(cands) == 0 {
		return Envelope{
			Response:   assemble.NoResultsMessage,
			Products:   []domain.Product{},
			Intent:     in,
			Confidence: confidenceDegraded,
			Metadata:   map[string]any{"tool": "text_product_search", "query": query},
		}
	}

	return Envelope{
		Response:   assemble.Render(cands),
		Products:   candidate.Products(cands),
		Intent:     in,
		Confidence: confidenceResults,
		Metadata: map[string]any{
			"tool":           "text_product_search",
			"query":          query,
			"products_found": len(cands),
		},
	}
}
