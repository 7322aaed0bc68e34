package dispatch

import (
	"strings"
	"unicode"
)

// genericImageQuery keeps the pipeline searchable when the describer
// returns nothing useful.
const genericImageQuery = "clothing apparel"

var colorTokens = []string{
	"red", "blue", "green", "black", "white", "yellow", "pink", "purple",
	"orange", "brown", "gray", "grey", "beige", "navy", "teal",
}

var styleTokens = []string{
	"casual", "formal", "sport", "athletic", "elegant", "vintage",
	"modern", "classic",
}

// deriveImageQuery turns an image description into a catalog search query:
// likely nouns (alphabetic, length >= 3, trailing plural 's' stripped),
// plus any color and style tokens found in the text.
func deriveImageQuery(description string) string {
	lower := strings.ToLower(strings.TrimSpace(description))
	if lower == "" {
		return genericImageQuery
	}

	var parts []string
	for _, tok := range strings.Fields(lower) {
		tok = strings.TrimSuffix(tok, "s")
		if len(tok) >= 3 && isAlpha(tok) {
			parts = append(parts, tok)
		}
	}

	for _, c := range colorTokens {
		if strings.Contains(lower, c) {
			parts = append(parts, c)
		}
	}
	for _, s := range styleTokens {
		if strings.Contains(lower, s) {
			parts = append(parts, s)
		}
	}

	if len(parts) == 0 {
		return genericImageQuery
	}
	return strings.Join(parts, " ")
}

func isAlpha(s string) bool {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}
