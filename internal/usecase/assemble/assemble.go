// Package assemble renders a ranked candidate list into the bounded
// recommendation text.
package assemble

import (
	"fmt"
	"strings"

	"github.com/shoplens/discovery/internal/domain/candidate"
)

const (
	// maxRendered caps the rendered list at the top 3 candidates,
	// regardless of how many are relevant.
	maxRendered = 3
	// snippetLen is the description cutoff before an ellipsis.
	snippetLen = 50
)

// NoResultsMessage is returned when retrieval legitimately finds nothing.
const NoResultsMessage = "I couldn't find any products matching your request. " +
	"Please try different search terms or be more specific about what you're looking for."

// Render formats the top candidates as a numbered recommendation list.
// An empty candidate list yields the fixed no-results message.
func Render(cands []candidate.Candidate) string {
	if len(cands) == 0 {
		return NoResultsMessage
	}
	if len(cands) > maxRendered {
		cands = cands[:maxRendered]
	}

	var b strings.Builder
	b.WriteString("**Top Recommendations:**\n\n")
	for i, c := range cands {
		fmt.Fprintf(&b, "%d. **%s** - $%.2f\n", i+1, c.Product.Name, c.Product.Price)
		fmt.Fprintf(&b, "   %s\n\n", snippet(c.Product.Description))
	}
	return b.String()
}

// snippet truncates a description to its first snippetLen characters,
// cutting on rune boundaries so multibyte text stays valid UTF-8.
func snippet(desc string) string {
	runes := []rune(desc)
	if len(runes) > snippetLen {
		return string(runes[:snippetLen]) + "..."
	}
	return desc
}
