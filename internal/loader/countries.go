package loader

import (
	"strings"

	"greenpulse/adapters/coercer"
	"greenpulse/domain/dataset"
	"greenpulse/domain/geo"
	"greenpulse/domain/series"
)

var (
	countryNameAliases = []string{"country", "name", "country_name"}
	countryISOAliases  = []string{"iso", "iso3", "iso_a3", "code", "country_code"}
	countrySkipAliases = []string{"skip", "exclude"}
)

// ParseCountries reads a country → category table. Rows flagged skip, rows without
// a name or ISO code and rows with an unknown category are ignored.
func ParseCountries(table *dataset.Table, categories series.CategorySet) []geo.CountryAssignment {
	out := []geo.CountryAssignment{}
	if table.Len() == 0 {
		return out
	}

	nameCol, _ := table.FindColumn(countryNameAliases...)
	isoCol, _ := table.FindColumn(countryISOAliases...)
	skipCol, _ := table.FindColumn(countrySkipAliases...)
	catCol, _ := table.FindColumn(DefaultColumnAliases().Category...)
	flags := coercer.NewNumericCoercer(coercer.DefaultCoercionConfig())

	for _, row := range table.Rows {
		if flags.Flag(cellAt(row, skipCol)) {
			continue
		}
		category, ok := categories.Resolve(cellAt(row, catCol))
		if !ok {
			continue
		}
		assignment := geo.CountryAssignment{
			Country:  strings.TrimSpace(cellAt(row, nameCol)),
			ISO:      strings.ToUpper(strings.TrimSpace(cellAt(row, isoCol))),
			Category: category,
		}
		if assignment.Country == "" && assignment.ISO == "" {
			continue
		}
		out = append(out, assignment)
	}
	return out
}
