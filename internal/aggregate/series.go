// Package aggregate derives every chart view from a snapshot of records. All
// functions are pure: they never modify their inputs and return fresh values.
package aggregate

import (
	"sort"

	"greenpulse/domain/series"
)

// BuildSeries groups records by category, each group sorted ascending by year.
// Records sharing a year keep their input order.
func BuildSeries(records []series.Record) map[series.Category]series.CategorySeries {
	out := make(map[series.Category]series.CategorySeries)
	for _, r := range records {
		out[r.Category] = append(out[r.Category], r)
	}
	for c, cs := range out {
		sort.SliceStable(cs, func(i, j int) bool { return cs[i].Year < cs[j].Year })
		out[c] = cs
	}
	return out
}

// Years returns the distinct years present in records, ascending
func Years(records []series.Record) []int {
	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, r := range records {
		if _, ok := seen[r.Year]; ok {
			continue
		}
		seen[r.Year] = struct{}{}
		years = append(years, r.Year)
	}
	sort.Ints(years)
	return years
}
