// Package conversation carries prior dialogue turns through the pipeline.
// The core treats the context as read-only signal and never mutates it.
package conversation

import "github.com/shoplens/discovery/internal/domain/intent"

// Turn is a single prior exchange.
type Turn struct {
	UserInput     string
	AgentResponse string
	Intent        intent.Intent
}

// Context is the ordered list of prior turns, oldest first.
type Context []Turn

// SeenProducts reports whether any prior turn went through a retrieval
// path, i.e. the user has already been shown products.
func (c Context) SeenProducts() bool {
	for _, t := range c {
		switch t.Intent {
		case intent.ProductSearch, intent.ImageSearch, intent.ProductComparison:
			return true
		}
	}
	return false
}
