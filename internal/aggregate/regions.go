package aggregate

import (
	"strings"

	"greenpulse/domain/geo"
)

// JoinRegions attaches a category to every boundary feature, matching by ISO code
// first and by case-insensitive name second. Unmatched features are kept with
// Matched false. When several assignments share a key, the later one wins.
func JoinRegions(features []geo.Feature, countries []geo.CountryAssignment) []geo.Region {
	byISO := make(map[string]geo.CountryAssignment)
	byName := make(map[string]geo.CountryAssignment)
	for _, c := range countries {
		if c.ISO != "" {
			byISO[strings.ToUpper(c.ISO)] = c
		}
		if c.Country != "" {
			byName[strings.ToLower(c.Country)] = c
		}
	}

	regions := make([]geo.Region, 0, len(features))
	for _, f := range features {
		region := geo.Region{Name: f.Name, ISO: f.ISO}
		match, ok := byISO[strings.ToUpper(f.ISO)]
		if !ok || f.ISO == "" {
			match, ok = byName[strings.ToLower(f.Name)]
			ok = ok && f.Name != ""
		}
		if ok {
			region.Category = match.Category
			region.Matched = true
		}
		regions = append(regions, region)
	}
	return regions
}
