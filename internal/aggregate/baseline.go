package aggregate

import (
	"github.com/montanaflynn/stats"

	"greenpulse/domain/series"
)

// BuildBaseline returns the mean raw value per category over the inclusive window
// [start, end]. Every category of set has an entry; categories without rows in the
// window map to 0. Records outside set are ignored.
func BuildBaseline(records []series.Record, set series.CategorySet, start, end int) map[series.Category]float64 {
	inWindow := make(map[series.Category][]float64)
	for _, r := range records {
		if r.Year < start || r.Year > end {
			continue
		}
		inWindow[r.Category] = append(inWindow[r.Category], r.RawValue)
	}

	out := make(map[series.Category]float64, set.Len())
	for _, c := range set.Categories() {
		values := inWindow[c]
		if len(values) == 0 {
			out[c] = 0
			continue
		}
		mean, err := stats.Mean(values)
		if err != nil {
			mean = 0
		}
		out[c] = mean
	}
	return out
}
