// Package chat answers general-conversation messages without touching the
// catalog. Responses are canned; confidence is an ordinal heuristic.
package chat

import (
	"strings"

	"github.com/shoplens/discovery/internal/domain/conversation"
)

// Confidence heuristics per reply branch.
const (
	confidenceGreeting = 0.9
	confidenceQA       = 0.9
	confidenceSimple   = 0.8
	confidenceQuestion = 0.7
	confidenceDefault  = 0.6
)

var greetings = []string{"hello", "hi", "hey", "good morning", "good afternoon", "good evening"}

var thanksPhrases = []string{"thanks", "thank you", "appreciate it"}

var goodbyePhrases = []string{"bye", "goodbye", "see you", "talk to you later"}

// qaPairs map question substrings to canned answers. Checked in a fixed
// order so overlapping questions resolve deterministically.
var qaPairs = []struct {
	question string
	answer   string
}{
	{"what's your name", "I'm your AI shopping assistant! I'm here to help you find the perfect products."},
	{"who are you", "I'm your intelligent shopping companion. I can help you discover products through text descriptions or image analysis."},
	{"what can you do", "I can help you with several things:\n* Product search: find specific items like 'red t-shirts' or 'running shoes'\n* Image analysis: upload photos to find similar products\n* Recommendations: get suggestions based on your needs\n* Comparisons: help you choose between different products"},
	{"how do you work", "You can describe products in words or show me pictures, and I'll search our catalog for the best matches."},
	{"what products do you have", "I have access to a range of products including clothing, shoes, and accessories. Tell me what you're looking for or browse by category."},
	{"can you compare products", "Yes! I can help you compare products, explain their features, and help you decide which items suit your needs."},
}

// Responder handles general conversation.
type Responder struct{}

// New creates a conversation responder.
func New() *Responder {
	return &Responder{}
}

// Respond returns the reply text and a confidence heuristic. It never
// fails and never accesses the catalog.
func (r *Responder) Respond(message string, conv conversation.Context) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(message))

	switch {
	case matchesAny(lower, greetings):
		return r.greet(conv), confidenceGreeting

	case lower == "yes" || lower == "ok" || lower == "okay" || lower == "sure" || lower == "alright":
		if conv.SeenProducts() {
			return "Great! Would you like help with anything else, or do you have questions about any of those products?", confidenceSimple
		}
		return "Perfect! What would you like to explore today? I can help you find products or answer questions.", confidenceSimple

	case lower == "no" || lower == "nope":
		return "No problem! Is there something else I can help you with?", confidenceSimple

	case matchesAny(lower, thanksPhrases):
		return "You're welcome! Is there anything else I can help you with today?", confidenceGreeting

	case matchesAny(lower, goodbyePhrases):
		return "Goodbye! Come back anytime you need help finding the perfect products.", confidenceGreeting
	}

	for _, qa := range qaPairs {
		if strings.Contains(lower, qa.question) {
			return qa.answer, confidenceQA
		}
	}

	if matchesAny(lower, []string{"what", "how", "when", "where", "why", "can you", "do you", "are you", "tell me about"}) {
		return "I'm here to help with your shopping needs! I can find products, answer questions about our catalog, or help you make decisions. What can I help you with?", confidenceQuestion
	}

	return "I'm your AI shopping assistant! You can ask me to find products, upload an image for recommendations, or ask questions about our catalog.", confidenceDefault
}

func (r *Responder) greet(conv conversation.Context) string {
	if conv.SeenProducts() {
		return "Hello! Welcome back. Would you like to continue exploring the products we looked at, or find something new?"
	}
	return "Hello! I'm your AI shopping assistant. Describe what you're looking for or upload an image, and I'll find matching products."
}

func matchesAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
