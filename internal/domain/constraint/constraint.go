// Package constraint holds the transient per-query filter set extracted
// from free text. A Set is built fresh per query and never persisted.
package constraint

import (
	"strings"

	"github.com/shoplens/discovery/internal/domain"
)

// Set maps constraint names to values. Nil pointers / empty strings mean
// the constraint is absent.
type Set struct {
	PriceMin     *float64
	PriceMax     *float64
	ColorFamily  string
	Brand        string
	Category     string
	Availability *bool
}

// IsEmpty reports whether no constraint was extracted.
func (s Set) IsEmpty() bool {
	return s.PriceMin == nil && s.PriceMax == nil &&
		s.ColorFamily == "" && s.Brand == "" && s.Category == "" &&
		s.Availability == nil
}

// MatchesPrice compares the product price numerically against the
// ceiling/floor constraints.
func (s Set) MatchesPrice(price float64) bool {
	if s.PriceMax != nil && price > *s.PriceMax {
		return false
	}
	if s.PriceMin != nil && price < *s.PriceMin {
		return false
	}
	return true
}

// MatchesColor compares the color constraint case-insensitively against
// the product's color_family metadata and, as a fallback, against the free
// text of name + description. The substring check covers items whose color
// appears only in prose, not in structured metadata.
func (s Set) MatchesColor(p domain.Product) bool {
	if s.ColorFamily == "" {
		return true
	}
	want := strings.ToLower(s.ColorFamily)
	if strings.ToLower(p.Attributes.ColorFamily) == want {
		return true
	}
	text := strings.ToLower(p.Name + " " + p.Description)
	return strings.Contains(text, want)
}

// Matches applies the full constraint set to a product in-process. This is
// the defense against an index that ignores unsupported predicates or
// matches loosely.
func (s Set) Matches(p domain.Product) bool {
	if !s.MatchesPrice(p.Price) {
		return false
	}
	if !s.MatchesColor(p) {
		return false
	}
	if s.Brand != "" && !strings.EqualFold(p.Attributes.Brand, s.Brand) {
		return false
	}
	if s.Category != "" && !containsFold(p.Category, s.Category) {
		return false
	}
	if s.Availability != nil && p.Availability != *s.Availability {
		return false
	}
	return true
}

func containsFold(list []string, want string) bool {
	for _, v := range list {
		if strings.EqualFold(v, want) {
			return true
		}
	}
	return false
}
