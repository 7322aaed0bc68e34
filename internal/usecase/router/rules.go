package router

import (
	"strings"

	"github.com/shoplens/discovery/internal/domain/intent"
)

// Rule vocabularies for the deterministic fallback cascade. Evaluated in
// fixed priority order; the ordering keeps short acknowledgements and
// greetings from being misrouted to product search.
var (
	simpleResponses = []string{
		"yes", "no", "ok", "okay", "sure", "alright",
		"thanks", "thank you", "bye", "goodbye",
	}

	greetingPhrases = []string{
		"hello", "hi", "hey", "what can you do", "help",
		"capabilities", "what's your name", "who are you",
	}

	productKeywords = []string{
		"buy", "shop", "find", "search", "show me", "show", "recommend",
		"recommendation", "suggest", "suggestion",
		"product", "item", "price", "brand", "color", "size",
		"clothing", "clothes", "apparel", "wear",
		"shoes", "sneakers", "boots", "sandals", "footwear",
		"electronics", "gadget", "device",
		"t-shirt", "tshirt", "shirt", "blouse", "top", "jeans", "pants",
		"trousers", "shorts", "skirt",
		"hoodie", "sweater", "jacket", "coat", "blazer", "dress", "gown",
		"suit", "uniform",
		"need", "want", "looking for", "looking", "same", "like",
		"similar", "comparable",
		"athletic", "sport", "sports", "gym", "workout", "fitness",
		"running", "training",
		"casual", "formal", "business", "party", "wedding", "everyday", "daily",
	}

	imageKeywords = []string{
		"image", "photo", "picture", "upload", "uploaded",
		"see this", "analyze this", "what's in this",
	}

	comparisonKeywords = []string{
		"compare", "vs", "versus", "better", "difference",
		"which is better", "which one",
	}

	questionWords = []string{
		"what", "how", "when", "where", "why",
		"can you", "do you", "are you", "tell me about",
	}
)

// classifyByRules is the deterministic fallback cascade. First match wins.
func classifyByRules(message string) intent.Intent {
	lower := strings.ToLower(strings.TrimSpace(message))

	for _, s := range simpleResponses {
		if lower == s {
			return intent.GeneralChat
		}
	}

	for _, g := range greetingPhrases {
		if lower == g || strings.HasPrefix(lower, g+" ") {
			return intent.GeneralChat
		}
	}

	if containsAny(lower, productKeywords) {
		return intent.ProductSearch
	}
	if containsAny(lower, imageKeywords) {
		return intent.ImageSearch
	}
	if containsAny(lower, comparisonKeywords) {
		return intent.ProductComparison
	}
	if containsAny(lower, questionWords) {
		return intent.GeneralChat
	}

	return intent.GeneralChat
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
