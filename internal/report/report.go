// Package report renders a load summary as markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"html"
	"time"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"greenpulse/domain/series"
	"greenpulse/internal/aggregate"
	"greenpulse/internal/dashboard"
	"greenpulse/internal/loader"
)

// Summary is everything the report needs from one load
type Summary struct {
	Title         string
	LoadID        string
	LoadedAt      time.Time
	Categories    []series.Category
	BaselineStart int
	BaselineEnd   int
	Ingest        loader.Report
	Views         *aggregate.Views
}

// FromDashboard captures the dashboard's current load
func FromDashboard(d *dashboard.Dashboard) Summary {
	start, end := d.BaselineWindow()
	return Summary{
		Title:         "NDVI by income group",
		LoadID:        d.LoadID().String(),
		LoadedAt:      d.LoadedAt(),
		Categories:    d.Categories().Categories(),
		BaselineStart: start,
		BaselineEnd:   end,
		Ingest:        d.Report(),
		Views:         d.Views(),
	}
}

// Markdown writes the summary as a markdown document
func Markdown(s Summary) []byte {
	var b bytes.Buffer
	title := s.Title
	if title == "" {
		title = "NDVI report"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)
	if s.LoadID != "" {
		fmt.Fprintf(&b, "Load `%s`", s.LoadID)
		if !s.LoadedAt.IsZero() {
			fmt.Fprintf(&b, " at %s", s.LoadedAt.UTC().Format(time.RFC3339))
		}
		b.WriteString("\n\n")
	}

	writeIngest(&b, s.Ingest)

	if s.Views == nil || s.Views.Empty() {
		b.WriteString("No records to summarise.\n")
		return b.Bytes()
	}

	writeBaseline(&b, s)
	writeTrends(&b, s)
	writeBands(&b, s.Views.Bands)
	writeRegions(&b, s.Views)
	return b.Bytes()
}

func writeIngest(b *bytes.Buffer, r loader.Report) {
	b.WriteString("## Ingest\n\n")
	fmt.Fprintf(b, "- Rows read: %d\n", r.RowsRead)
	fmt.Fprintf(b, "- Rows kept: %d\n", r.RowsKept)
	fmt.Fprintf(b, "- Rows dropped: %d\n", r.Dropped())
	for _, reason := range r.Reasons() {
		fmt.Fprintf(b, "  - %s: %d\n", reason, r.DroppedBy[reason])
	}
	if len(r.MissingColumns) > 0 {
		fmt.Fprintf(b, "- Missing columns: %v\n", r.MissingColumns)
	}
	b.WriteString("\n")
}

func writeBaseline(b *bytes.Buffer, s Summary) {
	fmt.Fprintf(b, "## Baseline %d-%d\n\n", s.BaselineStart, s.BaselineEnd)
	b.WriteString("| Income group | Mean NDVI |\n|---|---|\n")
	for _, c := range s.Categories {
		fmt.Fprintf(b, "| %s | %.4f |\n", c, s.Views.Baseline[c])
	}
	b.WriteString("\n")
}

func writeTrends(b *bytes.Buffer, s Summary) {
	if len(s.Views.Trends) == 0 {
		return
	}
	b.WriteString("## Trends\n\n")
	b.WriteString("| Income group | Slope (pp/year) | Points |\n|---|---|---|\n")
	for _, t := range s.Views.Trends {
		fmt.Fprintf(b, "| %s | %+.3f | %d |\n", t.Category, t.Slope, t.Points)
	}
	b.WriteString("\n")
}

func writeBands(b *bytes.Buffer, bands []series.YearBand) {
	b.WriteString("## Gap between groups\n\n")
	b.WriteString("| Year | Min | Max | Width |\n|---|---|---|---|\n")
	for _, band := range bands {
		fmt.Fprintf(b, "| %d | %s | %s | %.2f |\n",
			band.Year, dashboard.FormatPct(band.Min), dashboard.FormatPct(band.Max), band.Width())
	}
	b.WriteString("\n")
}

func writeRegions(b *bytes.Buffer, v *aggregate.Views) {
	if len(v.Regions) == 0 {
		return
	}
	matched := 0
	for _, r := range v.Regions {
		if r.Matched {
			matched++
		}
	}
	b.WriteString("## Map\n\n")
	fmt.Fprintf(b, "%d of %d regions have an income group.\n\n", matched, len(v.Regions))
}

// HTML renders markdown to an HTML fragment
func HTML(md []byte) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return markdown.ToHTML(md, p, renderer)
}

// Page wraps the rendered report in a standalone HTML document
func Page(title string, md []byte) []byte {
	var b bytes.Buffer
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", html.EscapeString(title))
	b.WriteString("</head>\n<body>\n")
	b.Write(HTML(md))
	b.WriteString("</body>\n</html>\n")
	return b.Bytes()
}
