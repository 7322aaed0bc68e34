package retrieval

import (
	"strings"
	"unicode"

	"github.com/shoplens/discovery/internal/domain"
	"github.com/shoplens/discovery/internal/domain/candidate"
)

// lexicalRank scores every product by the fraction of query tokens that
// appear as substrings of its normalized name + description + search text.
// Products with zero token hits are dropped. The sort is stable, so ties
// keep corpus order and identical queries return identical orderings.
func lexicalRank(query string, products []domain.Product, topK int) []candidate.Candidate {
	tokens := tokenize(query)
	if len(tokens) == 0 {
		return nil
	}

	cands := make([]candidate.Candidate, 0, topK)
	for _, p := range products {
		haystack := normalize(p.Name + " " + p.Description + " " + p.SearchText)
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(haystack, tok) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		cands = append(cands, candidate.Candidate{
			Product: p,
			Score:   float64(hits) / float64(len(tokens)),
		})
	}

	candidate.SortByScore(cands)
	if len(cands) > topK {
		cands = cands[:topK]
	}
	return cands
}

// tokenize lowercases, strips punctuation, and splits into a deduplicated
// token list preserving first-seen order.
func tokenize(s string) []string {
	fields := strings.FieldsFunc(normalize(s), unicode.IsSpace)
	seen := make(map[string]struct{}, len(fields))
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		tokens = append(tokens, f)
	}
	return tokens
}

// normalize lowercases and replaces punctuation with spaces.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
