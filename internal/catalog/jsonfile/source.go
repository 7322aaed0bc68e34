// Package jsonfile loads the product corpus from a JSON catalog file.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shoplens/discovery/internal/domain"
)

// Source reads products from a JSON file on disk.
type Source struct {
	path string
}

// New creates a catalog file source.
func New(path string) *Source {
	return &Source{path: path}
}

// productJSON is the wire shape of a catalog record.
type productJSON struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Description  string         `json:"description"`
	Price        float64        `json:"price"`
	Availability bool           `json:"availability"`
	Category     []string       `json:"category"`
	Attributes   attributesJSON `json:"attributes"`
	SearchText   string         `json:"search_text"`
	URL          string         `json:"url"`
}

type attributesJSON struct {
	Brand       string            `json:"brand"`
	ColorFamily string            `json:"color_family"`
	Material    string            `json:"material"`
	Size        []string          `json:"size"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Load reads and decodes the catalog file.
func (s *Source) Load(_ context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}

	var records []productJSON
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.path, err)
	}

	products := make([]domain.Product, 0, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, fmt.Errorf("catalog %s: record %d has no id", s.path, i)
		}
		if r.Price < 0 {
			return nil, fmt.Errorf("catalog %s: product %q has negative price", s.path, r.ID)
		}
		if r.SearchText == "" {
			r.SearchText = searchText(r)
		}
		products = append(products, domain.Product{
			ID:           r.ID,
			Name:         r.Name,
			Description:  r.Description,
			Price:        r.Price,
			Availability: r.Availability,
			Category:     r.Category,
			Attributes: domain.Attributes{
				Brand:       r.Attributes.Brand,
				ColorFamily: r.Attributes.ColorFamily,
				Material:    r.Attributes.Material,
				Size:        r.Attributes.Size,
				Extra:       r.Attributes.Extra,
			},
			SearchText: r.SearchText,
			URL:        r.URL,
		})
	}
	return products, nil
}

// searchText composes the embedding document for records that do not
// carry a precomputed one.
func searchText(r productJSON) string {
	parts := []string{r.Name, r.Description}
	parts = append(parts, r.Category...)
	if r.Attributes.Brand != "" {
		parts = append(parts, r.Attributes.Brand)
	}
	if r.Attributes.ColorFamily != "" {
		parts = append(parts, r.Attributes.ColorFamily)
	}
	if r.Attributes.Material != "" {
		parts = append(parts, r.Attributes.Material)
	}
	return strings.Join(parts, " ")
}
