package aggregate

import (
	"math"
	"sort"

	"greenpulse/domain/series"
)

// Visibility answers whether a category is currently shown. viewstate.State
// satisfies it.
type Visibility interface {
	Visible(c series.Category) bool
}

// VisibilityMap adapts a plain map; missing keys are hidden
type VisibilityMap map[series.Category]bool

// Visible implements Visibility
func (m VisibilityMap) Visible(c series.Category) bool { return m[c] }

// AllVisible returns a VisibilityMap showing every category of set
func AllVisible(set series.CategorySet) VisibilityMap {
	m := make(VisibilityMap, set.Len())
	for _, c := range set.Categories() {
		m[c] = true
	}
	return m
}

// BuildValueLookup indexes percent change by category and year. A later record
// for the same (category, year) replaces an earlier one.
func BuildValueLookup(records []series.Record) series.ValueLookup {
	lookup := make(series.ValueLookup)
	for _, r := range records {
		years, ok := lookup[r.Category]
		if !ok {
			years = make(map[int]float64)
			lookup[r.Category] = years
		}
		years[r.Year] = r.PctChange
	}
	return lookup
}

// ResolveAtYear returns the value of every visible category that has an entry for
// year, in the display order of set. Categories without an entry are omitted.
func ResolveAtYear(lookup series.ValueLookup, visibility Visibility, set series.CategorySet, year int) []series.CategoryValue {
	out := make([]series.CategoryValue, 0, set.Len())
	for _, c := range set.Categories() {
		if !visibility.Visible(c) {
			continue
		}
		if v, ok := lookup.Get(c, year); ok {
			out = append(out, series.CategoryValue{Category: c, Value: v})
		}
	}
	return out
}

// NearestYear maps a continuous pointer position in year units onto a year present
// in years (sorted ascending, distinct). x is rounded half up and clamped to the
// extent; when the rounded year is a gap, the closest present year wins, the
// earlier one on a tie. ok is false when years is empty or x is not finite.
func NearestYear(years []int, x float64) (int, bool) {
	if len(years) == 0 || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}

	lo, hi := years[0], years[len(years)-1]
	target := math.Floor(x + 0.5)
	if target <= float64(lo) {
		return lo, true
	}
	if target >= float64(hi) {
		return hi, true
	}
	want := int(target)

	i := sort.SearchInts(years, want)
	if years[i] == want {
		return want, true
	}
	// years[i-1] < want < years[i]
	before, after := years[i-1], years[i]
	if want-before <= after-want {
		return before, true
	}
	return after, true
}
