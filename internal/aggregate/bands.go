package aggregate

import (
	"sort"

	"github.com/montanaflynn/stats"

	"greenpulse/domain/series"
)

// BuildYearBands computes, per year, the min, max and midpoint of percent change
// across whatever categories are present that year. Sorted ascending by year.
func BuildYearBands(records []series.Record) []series.YearBand {
	byYear := make(map[int][]float64)
	for _, r := range records {
		byYear[r.Year] = append(byYear[r.Year], r.PctChange)
	}

	bands := make([]series.YearBand, 0, len(byYear))
	for year, values := range byYear {
		// values is never empty here, so stats cannot fail
		lo, _ := stats.Min(values)
		hi, _ := stats.Max(values)
		bands = append(bands, series.YearBand{
			Year: year,
			Min:  lo,
			Max:  hi,
			Mid:  lo/2 + hi/2, // halved first so extreme values cannot overflow
		})
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Year < bands[j].Year })
	return bands
}
