package dispatch

import (
	"context"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
	"github.com/shoplens/discovery/internal/domain/conversation"
	"github.com/shoplens/discovery/internal/domain/intent"
)

// Router classifies a message into an intent. Never fails.
type Router interface {
	Classify(ctx context.Context, message string) intent.Intent
}

// Retriever runs the hybrid retrieval pipeline.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]candidate.Candidate, error)
}

// Conversationalist answers general-chat messages.
type Conversationalist interface {
	Respond(message string, conv conversation.Context) (string, float64)
}

// ImageDescriber is the image-analysis collaborator. May be nil.
type ImageDescriber interface {
	Describe(ctx context.Context, image []byte) (string, error)
}

// Request is the inbound unit of work.
type Request struct {
	Text    string
	Image   []byte
	Context conversation.Context
}

// Envelope is the uniform response shape every handler returns; it is the
// stable contract with the outer transport regardless of how it is
// delivered (single response or terminal stream event).
type Envelope struct {
	Response   string
	Products   []domain.Product
	Intent     intent.Intent
	Confidence float64
	Metadata   map[string]any
}
