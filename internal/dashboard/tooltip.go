package dashboard

import (
	"fmt"

	"greenpulse/domain/series"
	"greenpulse/internal/aggregate"
)

// TooltipRow is one line of the hover tooltip
type TooltipRow struct {
	Category    series.Category `json:"category"`
	Value       float64         `json:"value"`
	Label       string          `json:"label"`
	Highlighted bool            `json:"highlighted"`
}

// Tooltip is the content shown for the year under the pointer
type Tooltip struct {
	Year int          `json:"year"`
	Rows []TooltipRow `json:"rows"`
}

// FormatPct renders a percent change the way the tooltip shows it
func FormatPct(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// TooltipAt resolves pointer position x (in year units) to the nearest year with
// data and lists the visible categories' values there. ok is false when there is
// nothing to show.
func (d *Dashboard) TooltipAt(x float64) (Tooltip, bool) {
	year, ok := aggregate.NearestYear(d.views.Years, x)
	if !ok {
		return Tooltip{Rows: []TooltipRow{}}, false
	}

	hovered, _ := d.state.Hovered()
	values := d.ResolveAtYear(year)
	tip := Tooltip{Year: year, Rows: make([]TooltipRow, 0, len(values))}
	for _, v := range values {
		tip.Rows = append(tip.Rows, TooltipRow{
			Category:    v.Category,
			Value:       v.Value,
			Label:       FormatPct(v.Value),
			Highlighted: v.Category == hovered,
		})
	}
	return tip, true
}
