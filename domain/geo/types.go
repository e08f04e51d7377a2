// Package geo holds the country-level join used by the choropleth view.
package geo

import "greenpulse/domain/series"

// Feature is one boundary of a GeoJSON collection, reduced to its join keys.
// Geometry is passed through untouched for the renderer.
type Feature struct {
	Name     string `json:"name"`
	ISO      string `json:"iso,omitempty"`
	Geometry []byte `json:"-"`
}

// CountryAssignment maps one country onto a category
type CountryAssignment struct {
	Country  string          `json:"country"`
	ISO      string          `json:"iso,omitempty"`
	Category series.Category `json:"category"`
}

// Region is a boundary joined with its category. Unmatched regions keep an empty
// category and render as "no data".
type Region struct {
	Name     string          `json:"name"`
	ISO      string          `json:"iso,omitempty"`
	Category series.Category `json:"category,omitempty"`
	Matched  bool            `json:"matched"`
}
