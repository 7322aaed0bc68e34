package domain

// Attributes holds the structured attributes of a catalog product.
// Size stays a list and Extra an open mapping because those are genuinely
// open-ended; everything else is a named field.
type Attributes struct {
	Brand       string
	ColorFamily string
	Material    string
	Size        []string
	Extra       map[string]string
}

// Product is an immutable catalog record. The retrieval core treats it as
// read-only; the Catalog Index owns the corpus.
type Product struct {
	ID           string
	Name         string
	Description  string
	Price        float64
	Availability bool
	Category     []string
	Attributes   Attributes
	SearchText   string
	URL          string
}

// PrimaryCategory returns the first category entry, or "" when none is set.
func (p Product) PrimaryCategory() string {
	if len(p.Category) == 0 {
		return ""
	}
	return p.Category[0]
}
