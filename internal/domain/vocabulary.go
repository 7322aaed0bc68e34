package domain

import (
	"sort"
	"strings"
)

// Vocabulary is the set of attribute values observed across the corpus,
// lowercased and deduplicated. Slices are sorted so that "first
// vocabulary-order match wins" rules stay deterministic across runs.
// A Vocabulary is valid only for the corpus snapshot it was built from.
type Vocabulary struct {
	Colors     []string
	Brands     []string
	Categories []string
}

// IsEmpty reports whether no attribute values were observed.
func (v Vocabulary) IsEmpty() bool {
	return len(v.Colors) == 0 && len(v.Brands) == 0 && len(v.Categories) == 0
}

// BuildVocabulary scans every product's color_family, brand, and category
// entries into a Vocabulary.
func BuildVocabulary(products []Product) Vocabulary {
	colors := make(map[string]struct{})
	brands := make(map[string]struct{})
	categories := make(map[string]struct{})

	for _, p := range products {
		if c := strings.ToLower(strings.TrimSpace(p.Attributes.ColorFamily)); c != "" {
			colors[c] = struct{}{}
		}
		if b := strings.ToLower(strings.TrimSpace(p.Attributes.Brand)); b != "" {
			brands[b] = struct{}{}
		}
		for _, cat := range p.Category {
			if c := strings.ToLower(strings.TrimSpace(cat)); c != "" {
				categories[c] = struct{}{}
			}
		}
	}

	return Vocabulary{
		Colors:     sortedKeys(colors),
		Brands:     sortedKeys(brands),
		Categories: sortedKeys(categories),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
