// Package router classifies a message into one of the closed intents,
// trying the LLM classifier first and degrading to deterministic rules.
package router

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shoplens/discovery/internal/domain/intent"
	"github.com/shoplens/discovery/internal/metrics"
)

// Classifier is the LLM-backed classification contract. May be nil.
type Classifier interface {
	Classify(ctx context.Context, message string) (intent.Intent, error)
}

// Service is the intent router.
type Service struct {
	classifier Classifier
	timeout    time.Duration
	logger     *zap.Logger
}

// New creates an intent router. classifier may be nil, in which case only
// the rule cascade runs.
func New(classifier Classifier, timeout time.Duration, logger *zap.Logger) *Service {
	return &Service{classifier: classifier, timeout: timeout, logger: logger}
}

// Classify returns the intent for a message. LLM failure never reaches the
// caller: the rule cascade is the guaranteed successor.
func (s *Service) Classify(ctx context.Context, message string) intent.Intent {
	if s.classifier != nil {
		llmCtx, cancel := context.WithTimeout(ctx, s.timeout)
		in, err := s.classifier.Classify(llmCtx, message)
		cancel()
		if err == nil && in.IsValid() {
			metrics.IntentClassificationsTotal.WithLabelValues("llm", string(in)).Inc()
			return in
		}
		s.logger.Warn("LLM routing unavailable, using rule fallback", zap.Error(err))
	}

	in := classifyByRules(message)
	metrics.IntentClassificationsTotal.WithLabelValues("rules", string(in)).Inc()
	return in
}
