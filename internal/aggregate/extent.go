package aggregate

import (
	"greenpulse/domain/series"
)

// YearExtent returns the smallest and largest year in records
func YearExtent(records []series.Record) (series.Extent, bool) {
	return extentOf(records, func(r series.Record) float64 { return float64(r.Year) })
}

// ValueExtent returns the smallest and largest percent change in records
func ValueExtent(records []series.Record) (series.Extent, bool) {
	return extentOf(records, func(r series.Record) float64 { return r.PctChange })
}

func extentOf(records []series.Record, field func(series.Record) float64) (series.Extent, bool) {
	if len(records) == 0 {
		return series.Extent{}, false
	}
	e := series.Extent{Min: field(records[0]), Max: field(records[0])}
	for _, r := range records[1:] {
		v := field(r)
		if v < e.Min {
			e.Min = v
		}
		if v > e.Max {
			e.Max = v
		}
	}
	return e, true
}
