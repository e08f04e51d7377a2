package aggregate

import (
	"gonum.org/v1/gonum/stat"

	"greenpulse/domain/series"
)

// BuildTrends fits an ordinary least-squares line of percent change over year per
// category of set. Categories with fewer than two distinct years get no trend.
func BuildTrends(bySeries map[series.Category]series.CategorySeries, set series.CategorySet) []series.Trend {
	trends := make([]series.Trend, 0, set.Len())
	for _, c := range set.Categories() {
		cs := bySeries[c]
		if len(cs) < 2 || cs[0].Year == cs[len(cs)-1].Year {
			continue
		}

		xs := make([]float64, len(cs))
		ys := make([]float64, len(cs))
		for i, r := range cs {
			xs[i] = float64(r.Year)
			ys[i] = r.PctChange
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		trends = append(trends, series.Trend{
			Category:  c,
			Slope:     beta,
			Intercept: alpha,
			Points:    len(cs),
		})
	}
	return trends
}
