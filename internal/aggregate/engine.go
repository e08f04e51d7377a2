package aggregate

import (
	"strconv"
	"strings"

	"greenpulse/domain/core"
	"greenpulse/domain/geo"
	"greenpulse/domain/series"
)

// Views holds every structure derived from one record snapshot
type Views struct {
	Series      map[series.Category]series.CategorySeries `json:"series"`
	Bands       []series.YearBand                         `json:"bands"`
	Baseline    map[series.Category]float64               `json:"baseline"`
	Lookup      series.ValueLookup                        `json:"-"`
	Trends      []series.Trend                            `json:"trends"`
	Regions     []geo.Region                              `json:"regions"`
	Years       []int                                     `json:"years"`
	YearExtent  *series.Extent                            `json:"year_extent"`
	ValueExtent *series.Extent                            `json:"value_extent"`
	Fingerprint core.Hash                                 `json:"fingerprint"`
}

// Empty reports whether the snapshot had no records; renderers draw nothing then
func (v *Views) Empty() bool {
	return len(v.Years) == 0
}

// LatestYear returns the most recent year with data
func (v *Views) LatestYear() (int, bool) {
	if len(v.Years) == 0 {
		return 0, false
	}
	return v.Years[len(v.Years)-1], true
}

// Engine builds Views for a fixed category set and baseline window
type Engine struct {
	categories    series.CategorySet
	baselineStart int
	baselineEnd   int
}

// NewEngine creates an engine. A window with start after end is swapped.
func NewEngine(categories series.CategorySet, baselineStart, baselineEnd int) *Engine {
	if baselineStart > baselineEnd {
		baselineStart, baselineEnd = baselineEnd, baselineStart
	}
	return &Engine{
		categories:    categories,
		baselineStart: baselineStart,
		baselineEnd:   baselineEnd,
	}
}

// Categories returns the engine's closed category set
func (e *Engine) Categories() series.CategorySet {
	return e.categories
}

// BaselineWindow returns the inclusive baseline window
func (e *Engine) BaselineWindow() (int, int) {
	return e.baselineStart, e.baselineEnd
}

// Build derives every view from records and the optional geographic join inputs
func (e *Engine) Build(records []series.Record, features []geo.Feature, countries []geo.CountryAssignment) *Views {
	bySeries := BuildSeries(records)
	v := &Views{
		Series:      bySeries,
		Bands:       BuildYearBands(records),
		Baseline:    BuildBaseline(records, e.categories, e.baselineStart, e.baselineEnd),
		Lookup:      BuildValueLookup(records),
		Trends:      BuildTrends(bySeries, e.categories),
		Regions:     JoinRegions(features, countries),
		Years:       Years(records),
		Fingerprint: Fingerprint(records),
	}
	if ext, ok := YearExtent(records); ok {
		v.YearExtent = &ext
	}
	if ext, ok := ValueExtent(records); ok {
		v.ValueExtent = &ext
	}
	return v
}

// ResolveAtYear answers a point query against the views' lookup
func (e *Engine) ResolveAtYear(v *Views, visibility Visibility, year int) []series.CategoryValue {
	return ResolveAtYear(v.Lookup, visibility, e.categories, year)
}

// Fingerprint hashes records in order, so equal inputs always produce equal hashes
func Fingerprint(records []series.Record) core.Hash {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(strconv.Itoa(r.Year))
		b.WriteByte('|')
		b.WriteString(r.Category.String())
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(r.RawValue, 'g', -1, 64))
		b.WriteByte('|')
		b.WriteString(strconv.FormatFloat(r.PctChange, 'g', -1, 64))
		b.WriteByte('\n')
	}
	return core.NewHash([]byte(b.String()))
}
