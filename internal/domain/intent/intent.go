// Package intent defines the closed set of user intents the dispatcher
// routes on. Adding or removing an intent is a compile-time-checked change.
package intent

// Intent is the category describing what the user wants.
type Intent string

// Routable intents.
const (
	GeneralChat       Intent = "general_chat"
	ProductSearch     Intent = "product_search"
	ImageSearch       Intent = "image_search"
	ProductComparison Intent = "product_comparison"
)

// Error marks a handler-boundary failure in the response envelope.
// It is never produced by classification and never routed.
const Error Intent = "error"

// IsValid checks if the intent is one of the routable values.
func (i Intent) IsValid() bool {
	return i == GeneralChat || i == ProductSearch || i == ImageSearch || i == ProductComparison
}

// Tool names the LLM router is allowed to return.
const (
	ToolGeneralConversation = "general_conversation"
	ToolTextProductSearch   = "text_product_search"
	ToolImageProductSearch  = "image_product_search"
)

// FromTool maps a router tool name to an Intent. Unrecognized names
// report false; callers must treat that as general_chat.
func FromTool(name string) (Intent, bool) {
	switch name {
	case ToolGeneralConversation:
		return GeneralChat, true
	case ToolTextProductSearch:
		return ProductSearch, true
	case ToolImageProductSearch:
		return ImageSearch, true
	default:
		return "", false
	}
}
