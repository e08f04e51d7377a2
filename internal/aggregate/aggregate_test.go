package aggregate

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenpulse/domain/geo"
	"greenpulse/domain/series"
	"greenpulse/internal/testkit"
)

var sample = []series.Record{
	{Year: 2000, Category: series.HighIncome, RawValue: 10, PctChange: 0},
	{Year: 2000, Category: series.LowerMiddleIncome, RawValue: 4, PctChange: 0},
	{Year: 2001, Category: series.HighIncome, RawValue: 11, PctChange: 5},
	{Year: 2001, Category: series.LowerMiddleIncome, RawValue: 4.2, PctChange: 1},
}

// ============================================================================
// BuildSeries
// ============================================================================

func TestBuildSeries_GroupsAndSorts(t *testing.T) {
	in := []series.Record{
		{Year: 2003, Category: series.HighIncome, PctChange: 3},
		{Year: 2001, Category: series.HighIncome, PctChange: 1},
		{Year: 2002, Category: series.UpperMiddleIncome, PctChange: 2},
		{Year: 2002, Category: series.HighIncome, PctChange: 2},
	}

	got := BuildSeries(in)

	require.Len(t, got, 2)
	assert.Equal(t, []int{2001, 2002, 2003}, got[series.HighIncome].Years())
	assert.Equal(t, []int{2002}, got[series.UpperMiddleIncome].Years())
	// input untouched
	assert.Equal(t, 2003, in[0].Year)
}

func TestBuildSeries_FreshSlices(t *testing.T) {
	first := BuildSeries(sample)
	first[series.HighIncome][0].PctChange = 99

	second := BuildSeries(sample)
	assert.Equal(t, 0.0, second[series.HighIncome][0].PctChange)
	assert.Equal(t, 0.0, sample[0].PctChange)
}

func TestYears(t *testing.T) {
	assert.Equal(t, []int{2000, 2001}, Years(sample))
	assert.Equal(t, []int{}, Years(nil))
}

// ============================================================================
// BuildYearBands
// ============================================================================

func TestBuildYearBands_Sample(t *testing.T) {
	got := BuildYearBands(sample)

	assert.Equal(t, []series.YearBand{
		{Year: 2000, Min: 0, Max: 0, Mid: 0},
		{Year: 2001, Min: 1, Max: 5, Mid: 3},
	}, got)
}

func TestBuildYearBands_SingleCategoryYear(t *testing.T) {
	got := BuildYearBands([]series.Record{{Year: 2010, Category: series.HighIncome, PctChange: -2.5}})

	assert.Equal(t, []series.YearBand{{Year: 2010, Min: -2.5, Max: -2.5, Mid: -2.5}}, got)
}

func TestBuildYearBands_Empty(t *testing.T) {
	got := BuildYearBands(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestBuildYearBands_MidWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	cats := series.DefaultCategories().Categories()

	for trial := 0; trial < 200; trial++ {
		var in []series.Record
		for i := 0; i < 1+rng.Intn(30); i++ {
			in = append(in, series.Record{
				Year:      2000 + rng.Intn(10),
				Category:  cats[rng.Intn(len(cats))],
				PctChange: (rng.Float64() - 0.5) * 1e6,
			})
		}
		// Scenario: extreme magnitudes must not overflow the midpoint
		if trial%10 == 0 {
			in = append(in,
				series.Record{Year: 1999, Category: cats[0], PctChange: 1.7e308},
				series.Record{Year: 1999, Category: cats[1], PctChange: 1.7e308},
			)
		}

		bands := BuildYearBands(in)
		assert.Len(t, bands, len(Years(in)))
		for i, b := range bands {
			assert.LessOrEqual(t, b.Min, b.Mid)
			assert.LessOrEqual(t, b.Mid, b.Max)
			if i > 0 {
				assert.Less(t, bands[i-1].Year, b.Year)
			}
		}
	}
}

// ============================================================================
// BuildBaseline
// ============================================================================

func TestBuildBaseline_MeansInWindow(t *testing.T) {
	in := []series.Record{
		{Year: 1999, Category: series.HighIncome, RawValue: 100},
		{Year: 2000, Category: series.HighIncome, RawValue: 0.4},
		{Year: 2005, Category: series.HighIncome, RawValue: 0.6},
		{Year: 2006, Category: series.HighIncome, RawValue: 100},
		{Year: 2003, Category: series.LowerMiddleIncome, RawValue: 0.3},
	}

	got := BuildBaseline(in, series.DefaultCategories(), 2000, 2005)

	assert.Len(t, got, 3)
	assert.InDelta(t, 0.5, got[series.HighIncome], 1e-12)
	assert.InDelta(t, 0.3, got[series.LowerMiddleIncome], 1e-12)
	v, ok := got[series.UpperMiddleIncome]
	assert.True(t, ok)
	assert.Equal(t, 0.0, v)
}

func TestBuildBaseline_AlwaysOneEntryPerCategory(t *testing.T) {
	set := series.DefaultCategories()

	for _, in := range [][]series.Record{nil, sample, {{Year: 1990, Category: series.HighIncome, RawValue: 1}}} {
		got := BuildBaseline(in, set, 2000, 2005)
		assert.Len(t, got, set.Len())
		for _, c := range set.Categories() {
			_, ok := got[c]
			assert.True(t, ok, "missing %s", c)
		}
	}
}

func TestBuildBaseline_IgnoresForeignCategories(t *testing.T) {
	got := BuildBaseline([]series.Record{{Year: 2000, Category: "Low income", RawValue: 1}},
		series.DefaultCategories(), 2000, 2005)
	_, ok := got["Low income"]
	assert.False(t, ok)
}

// ============================================================================
// BuildValueLookup / ResolveAtYear
// ============================================================================

func TestLookupRoundTrip(t *testing.T) {
	set := series.DefaultCategories()
	lookup := BuildValueLookup([]series.Record{{Year: 2010, Category: series.HighIncome, PctChange: 5.5}})

	got := ResolveAtYear(lookup, AllVisible(set), set, 2010)
	assert.Equal(t, []series.CategoryValue{{Category: series.HighIncome, Value: 5.5}}, got)
}

func TestBuildValueLookup_LastWriteWins(t *testing.T) {
	lookup := BuildValueLookup([]series.Record{
		{Year: 2010, Category: series.HighIncome, PctChange: 1},
		{Year: 2010, Category: series.HighIncome, PctChange: 2},
	})

	v, ok := lookup.Get(series.HighIncome, 2010)
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)
}

func TestResolveAtYear_DisplayOrderAndVisibility(t *testing.T) {
	set := series.DefaultCategories()
	// inserted in reverse display order
	lookup := BuildValueLookup([]series.Record{
		{Year: 2001, Category: series.LowerMiddleIncome, PctChange: 1},
		{Year: 2001, Category: series.UpperMiddleIncome, PctChange: 2},
		{Year: 2001, Category: series.HighIncome, PctChange: 3},
	})

	got := ResolveAtYear(lookup, AllVisible(set), set, 2001)
	assert.Equal(t, []series.Category{series.HighIncome, series.UpperMiddleIncome, series.LowerMiddleIncome},
		categoriesOf(got))

	vis := AllVisible(set)
	vis[series.UpperMiddleIncome] = false
	got = ResolveAtYear(lookup, vis, set, 2001)
	assert.Equal(t, []series.Category{series.HighIncome, series.LowerMiddleIncome}, categoriesOf(got))

	got = ResolveAtYear(lookup, AllVisible(set), set, 1990)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResolveAtYear_OmitsMissingYear(t *testing.T) {
	set := series.DefaultCategories()
	lookup := BuildValueLookup(sample)

	got := ResolveAtYear(lookup, AllVisible(set), set, 2001)
	assert.Equal(t, []series.CategoryValue{
		{Category: series.HighIncome, Value: 5},
		{Category: series.LowerMiddleIncome, Value: 1},
	}, got)
}

func categoriesOf(rows []series.CategoryValue) []series.Category {
	out := make([]series.Category, len(rows))
	for i, r := range rows {
		out[i] = r.Category
	}
	return out
}

// ============================================================================
// NearestYear
// ============================================================================

func TestNearestYear(t *testing.T) {
	years := []int{2000, 2001, 2002, 2005}

	cases := []struct {
		x    float64
		want int
	}{
		{2000.2, 2000},
		{2000.5, 2001},
		{2001.49, 2001},
		{1980, 2000},
		{2030, 2005},
		{2003, 2002}, // gap: 2002 and 2005, 2002 is closer
		{2004, 2005},
	}
	for _, tc := range cases {
		got, ok := NearestYear(years, tc.x)
		assert.True(t, ok)
		assert.Equal(t, tc.want, got, "x=%v", tc.x)
	}

	got, _ := NearestYear([]int{2000, 2004}, 2002)
	assert.Equal(t, 2000, got, "tie prefers the earlier year")
}

func TestNearestYear_Empty(t *testing.T) {
	_, ok := NearestYear(nil, 2001)
	assert.False(t, ok)
}

// ============================================================================
// Extents, trends, regions
// ============================================================================

func TestExtents(t *testing.T) {
	years, ok := YearExtent(sample)
	assert.True(t, ok)
	assert.Equal(t, series.Extent{Min: 2000, Max: 2001}, years)

	values, ok := ValueExtent(sample)
	assert.True(t, ok)
	assert.Equal(t, series.Extent{Min: 0, Max: 5}, values)

	_, ok = ValueExtent(nil)
	assert.False(t, ok)
}

func TestBuildTrends(t *testing.T) {
	in := []series.Record{
		{Year: 2000, Category: series.HighIncome, PctChange: 0},
		{Year: 2001, Category: series.HighIncome, PctChange: 2},
		{Year: 2002, Category: series.HighIncome, PctChange: 4},
		{Year: 2000, Category: series.LowerMiddleIncome, PctChange: 1},
	}

	trends := BuildTrends(BuildSeries(in), series.DefaultCategories())

	require.Len(t, trends, 1)
	assert.Equal(t, series.HighIncome, trends[0].Category)
	assert.InDelta(t, 2.0, trends[0].Slope, 1e-9)
	assert.InDelta(t, 4.0, trends[0].At(2002), 1e-6)
	assert.Equal(t, 3, trends[0].Points)
}

func TestJoinRegions(t *testing.T) {
	features := []geo.Feature{
		{Name: "Germany", ISO: "DEU"},
		{Name: "india"},
		{Name: "France", ISO: "FRA"},
		{Name: "Kenia", ISO: "KEN"},
	}
	countries := []geo.CountryAssignment{
		{Country: "Germany", ISO: "DEU", Category: series.HighIncome},
		{Country: "India", ISO: "IND", Category: series.LowerMiddleIncome},
		{Country: "Kenya", ISO: "ken", Category: series.LowerMiddleIncome},
	}

	got := JoinRegions(features, countries)

	require.Len(t, got, 4)
	assert.Equal(t, geo.Region{Name: "Germany", ISO: "DEU", Category: series.HighIncome, Matched: true}, got[0])
	assert.Equal(t, series.LowerMiddleIncome, got[1].Category)
	assert.False(t, got[2].Matched)
	assert.Empty(t, got[2].Category)
	assert.True(t, got[3].Matched, "ISO match wins over a misspelled name")
}

// ============================================================================
// Engine
// ============================================================================

func TestEngine_BuildDeterministic(t *testing.T) {
	records := testkit.NewNDVIGenerator(testkit.DefaultNDVIConfig()).Records()
	engine := NewEngine(series.DefaultCategories(), 2000, 2005)

	first, err := json.Marshal(engine.Build(records, nil, nil))
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := json.Marshal(engine.Build(records, nil, nil))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}

	lookupA, _ := json.Marshal(BuildValueLookup(records))
	lookupB, _ := json.Marshal(BuildValueLookup(records))
	assert.Equal(t, lookupA, lookupB)
}

func TestEngine_Build(t *testing.T) {
	engine := NewEngine(series.DefaultCategories(), 2005, 2000)
	start, end := engine.BaselineWindow()
	assert.Equal(t, 2000, start)
	assert.Equal(t, 2005, end)

	v := engine.Build(sample, nil, nil)

	assert.False(t, v.Empty())
	latest, ok := v.LatestYear()
	assert.True(t, ok)
	assert.Equal(t, 2001, latest)
	assert.Len(t, v.Bands, 2)
	assert.Len(t, v.Baseline, 3)
	assert.InDelta(t, 10.5, v.Baseline[series.HighIncome], 1e-12)
	require.NotNil(t, v.YearExtent)
	assert.Equal(t, 2000.0, v.YearExtent.Min)
	assert.Equal(t, Fingerprint(sample), v.Fingerprint)

	rows := engine.ResolveAtYear(v, AllVisible(engine.Categories()), 2000)
	assert.Len(t, rows, 2)
}

func TestEngine_BuildEmpty(t *testing.T) {
	v := NewEngine(series.DefaultCategories(), 2000, 2005).Build(nil, nil, nil)

	assert.True(t, v.Empty())
	_, ok := v.LatestYear()
	assert.False(t, ok)
	assert.Empty(t, v.Bands)
	assert.Empty(t, v.Trends)
	assert.Empty(t, v.Regions)
	assert.Nil(t, v.YearExtent)
	assert.Len(t, v.Baseline, 3)
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	reversed := []series.Record{sample[3], sample[2], sample[1], sample[0]}
	assert.NotEqual(t, Fingerprint(sample), Fingerprint(reversed))
	assert.Equal(t, Fingerprint(sample), Fingerprint(append([]series.Record(nil), sample...)))
}
