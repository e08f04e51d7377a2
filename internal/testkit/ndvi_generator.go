package testkit

import (
	"math"
	"math/rand"
	"strconv"

	"greenpulse/domain/series"
)

// NDVIGeneratorConfig configures the synthetic greenness dataset
type NDVIGeneratorConfig struct {
	StartYear     int                         `json:"start_year"`
	EndYear       int                         `json:"end_year"`
	Categories    []series.Category           `json:"categories"`
	BaseLevels    map[series.Category]float64 `json:"base_levels"` // mean NDVI per category
	AnnualDrift   map[series.Category]float64 `json:"annual_drift"`
	NoiseStd      float64                     `json:"noise_std"`
	BaselineStart int                         `json:"baseline_start"`
	BaselineEnd   int                         `json:"baseline_end"`
	InvalidRows   int                         `json:"invalid_rows"` // malformed rows appended after the valid ones
	Seed          int64                       `json:"seed"`
}

// DefaultNDVIConfig mirrors the shape of the published income-group dataset
func DefaultNDVIConfig() NDVIGeneratorConfig {
	return NDVIGeneratorConfig{
		StartYear:  2000,
		EndYear:    2024,
		Categories: series.DefaultCategories().Categories(),
		BaseLevels: map[series.Category]float64{
			series.HighIncome:        0.46,
			series.UpperMiddleIncome: 0.41,
			series.LowerMiddleIncome: 0.37,
		},
		AnnualDrift: map[series.Category]float64{
			series.HighIncome:        0.0021,
			series.UpperMiddleIncome: 0.0012,
			series.LowerMiddleIncome: 0.0004,
		},
		NoiseStd:      0.004,
		BaselineStart: series.DefaultBaselineStart,
		BaselineEnd:   series.DefaultBaselineEnd,
		Seed:          42,
	}
}

// NDVIGenerator produces deterministic observation tables
type NDVIGenerator struct {
	config NDVIGeneratorConfig
	rng    *rand.Rand
}

// NewNDVIGenerator creates a generator; equal configs produce equal output
func NewNDVIGenerator(config NDVIGeneratorConfig) *NDVIGenerator {
	return &NDVIGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Header is the column layout of generated tables
var Header = []string{"year", "income_group", "ndvi", "ndvi_pct_change"}

// Records generates valid records, category-major, years ascending. Percent change is
// relative to each category's mean over the baseline window.
func (g *NDVIGenerator) Records() []series.Record {
	var out []series.Record
	for _, cat := range g.config.Categories {
		raws := make([]float64, 0, g.config.EndYear-g.config.StartYear+1)
		for year := g.config.StartYear; year <= g.config.EndYear; year++ {
			level := g.config.BaseLevels[cat] + g.config.AnnualDrift[cat]*float64(year-g.config.StartYear)
			raws = append(raws, round(level+g.rng.NormFloat64()*g.config.NoiseStd, 4))
		}

		baseline, n := 0.0, 0
		for i, raw := range raws {
			year := g.config.StartYear + i
			if year >= g.config.BaselineStart && year <= g.config.BaselineEnd {
				baseline += raw
				n++
			}
		}
		if n > 0 {
			baseline /= float64(n)
		}

		for i, raw := range raws {
			pct := 0.0
			if baseline != 0 {
				pct = round((raw-baseline)/baseline*100, 3)
			}
			out = append(out, series.Record{
				Year:      g.config.StartYear + i,
				Category:  cat,
				RawValue:  raw,
				PctChange: pct,
			})
		}
	}
	return out
}

// Rows renders the records as a string table with a header row, followed by
// InvalidRows malformed rows
func (g *NDVIGenerator) Rows() [][]string {
	rows := [][]string{append([]string(nil), Header...)}
	for _, r := range g.Records() {
		rows = append(rows, []string{
			strconv.Itoa(r.Year),
			r.Category.String(),
			strconv.FormatFloat(r.RawValue, 'f', -1, 64),
			strconv.FormatFloat(r.PctChange, 'f', -1, 64),
		})
	}

	bad := [][]string{
		{"x", string(series.HighIncome), "0.4", "3"},
		{"2001", "Low income", "0.3", "1"},
		{"2002", string(series.UpperMiddleIncome), "NaN", "1"},
		{"2003", string(series.LowerMiddleIncome), "0.35", ""},
	}
	for i := 0; i < g.config.InvalidRows; i++ {
		rows = append(rows, bad[i%len(bad)])
	}
	return rows
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
