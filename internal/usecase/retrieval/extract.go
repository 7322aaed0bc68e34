package retrieval

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/constraint"
)

// priceCeilingRe recognizes an upper price bound: "under $50", "below 30",
// "<= 20", "less than $15". The cue words match whole words only, so
// "thunder 50" carries no price cue. Only integer amounts; only the first
// match is used. Range phrasings ("between X and Y") are not recognized.
var priceCeilingRe = regexp.MustCompile(`(?:\b(?:under|below|less than)\b|<=)\s*\$?\s*(\d+)`)

// Extract parses a free-text query into a constraint set. This is strictly
// best-effort signal extraction: malformed or absent patterns yield an
// empty set, never an error.
func Extract(query string, voc domain.Vocabulary) constraint.Set {
	var cons constraint.Set
	lower := strings.ToLower(query)

	if m := priceCeilingRe.FindStringSubmatch(lower); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			cons.PriceMax = &v
			if cons.PriceMin == nil {
				zero := 0.0
				cons.PriceMin = &zero
			}
		}
	}

	// First vocabulary-order color appearing as a whole word wins.
	for _, color := range voc.Colors {
		if containsWord(lower, color) {
			cons.ColorFamily = titleCase(color)
			break
		}
	}

	return cons
}

// containsWord reports whether w occurs in s delimited by non-letter,
// non-digit runes (or string boundaries). Neighbours are decoded as
// runes so multibyte text does not produce false boundaries.
func containsWord(s, w string) bool {
	if w == "" {
		return false
	}
	for start := 0; ; {
		i := strings.Index(s[start:], w)
		if i < 0 {
			return false
		}
		i += start
		before := true
		if i > 0 {
			r, _ := utf8.DecodeLastRuneInString(s[:i])
			before = isBoundary(r)
		}
		end := i + len(w)
		after := true
		if end < len(s) {
			r, _ := utf8.DecodeRuneInString(s[end:])
			after = isBoundary(r)
		}
		if before && after {
			return true
		}
		start = i + 1
	}
}

func isBoundary(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r)
}

// titleCase uppercases the first letter of each space-separated word,
// matching the casing stored in product metadata.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
