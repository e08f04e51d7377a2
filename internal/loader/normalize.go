// Package loader turns raw tabular rows into validated records. Invalid rows are
// counted and dropped, never coerced.
package loader

import (
	"sort"

	"greenpulse/adapters/coercer"
	"greenpulse/domain/dataset"
	"greenpulse/domain/series"
)

// ColumnAliases lists the accepted header names per logical field, most preferred first
type ColumnAliases struct {
	Year      []string
	Category  []string
	RawValue  []string
	PctChange []string
}

// DefaultColumnAliases matches the sample dataset and common variants
func DefaultColumnAliases() ColumnAliases {
	return ColumnAliases{
		Year:      []string{"year"},
		Category:  []string{"income_group", "category", "income"},
		RawValue:  []string{"ndvi", "raw_value", "ndvi_mean", "value"},
		PctChange: []string{"ndvi_pct_change", "pct_change", "pct"},
	}
}

// DropReason classifies why a row was excluded
type DropReason string

const (
	DropBadYear         DropReason = "bad_year"
	DropBadRawValue     DropReason = "bad_raw"
	DropBadPctChange    DropReason = "bad_pct"
	DropUnknownCategory DropReason = "unknown_category"
)

// Report summarises one normalization pass
type Report struct {
	Source         string             `json:"source"`
	RowsRead       int                `json:"rows_read"`
	RowsKept       int                `json:"rows_kept"`
	DroppedBy      map[DropReason]int `json:"dropped_by"`
	MissingColumns []string           `json:"missing_columns,omitempty"`
}

// Dropped returns the total number of excluded rows
func (r Report) Dropped() int {
	return r.RowsRead - r.RowsKept
}

// Reasons returns the drop reasons that occurred, sorted
func (r Report) Reasons() []DropReason {
	reasons := make([]DropReason, 0, len(r.DroppedBy))
	for reason, n := range r.DroppedBy {
		if n > 0 {
			reasons = append(reasons, reason)
		}
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

// Normalizer validates raw rows against a closed category set
type Normalizer struct {
	categories series.CategorySet
	aliases    ColumnAliases
	coercer    *coercer.NumericCoercer
}

// NewNormalizer creates a normalizer with default aliases and strict coercion
func NewNormalizer(categories series.CategorySet) *Normalizer {
	return &Normalizer{
		categories: categories,
		aliases:    DefaultColumnAliases(),
		coercer:    coercer.NewNumericCoercer(coercer.DefaultCoercionConfig()),
	}
}

// WithAliases replaces the column aliases
func (n *Normalizer) WithAliases(aliases ColumnAliases) *Normalizer {
	n.aliases = aliases
	return n
}

// WithCoercion replaces the numeric coercion rules
func (n *Normalizer) WithCoercion(config coercer.CoercionConfig) *Normalizer {
	n.coercer = coercer.NewNumericCoercer(config)
	return n
}

type columns struct {
	year, category, raw, pct string
}

// resolveColumns maps logical fields to headers. Missing fields are reported by
// their primary alias.
func (n *Normalizer) resolveColumns(table *dataset.Table) (columns, []string) {
	var cols columns
	var missing []string
	lookup := func(dst *string, aliases []string) {
		if h, ok := table.FindColumn(aliases...); ok {
			*dst = h
		} else if len(aliases) > 0 {
			missing = append(missing, aliases[0])
		}
	}
	lookup(&cols.year, n.aliases.Year)
	lookup(&cols.category, n.aliases.Category)
	lookup(&cols.raw, n.aliases.RawValue)
	lookup(&cols.pct, n.aliases.PctChange)
	return cols, missing
}

// Normalize validates every row of table. The first failing check decides a
// dropped row's reason. Empty input yields an empty, non-nil slice.
func (n *Normalizer) Normalize(table *dataset.Table) ([]series.Record, Report) {
	report := Report{DroppedBy: make(map[DropReason]int)}
	records := make([]series.Record, 0, table.Len())
	if table == nil {
		return records, report
	}
	report.Source = table.Source
	report.RowsRead = table.Len()
	if table.Len() == 0 {
		return records, report
	}

	cols, missing := n.resolveColumns(table)
	report.MissingColumns = missing

	for _, row := range table.Rows {
		rec, reason, ok := n.normalizeRow(row, cols)
		if !ok {
			report.DroppedBy[reason]++
			continue
		}
		records = append(records, rec)
	}

	report.RowsKept = len(records)
	return records, report
}

func (n *Normalizer) normalizeRow(row dataset.RawRow, cols columns) (series.Record, DropReason, bool) {
	// a missing column has an empty header name, so the lookup yields "" and fails to parse
	year, ok := n.coercer.Year(cellAt(row, cols.year))
	if !ok {
		return series.Record{}, DropBadYear, false
	}
	category, ok := n.categories.Resolve(cellAt(row, cols.category))
	if !ok {
		return series.Record{}, DropUnknownCategory, false
	}
	raw, ok := n.coercer.Float(cellAt(row, cols.raw))
	if !ok {
		return series.Record{}, DropBadRawValue, false
	}
	pct, ok := n.coercer.Float(cellAt(row, cols.pct))
	if !ok {
		return series.Record{}, DropBadPctChange, false
	}
	return series.Record{Year: year, Category: category, RawValue: raw, PctChange: pct}, "", true
}

func cellAt(row dataset.RawRow, column string) string {
	if column == "" {
		return ""
	}
	return row[column]
}

// Normalize validates table against categories with default settings and
// discards the report
func Normalize(table *dataset.Table, categories series.CategorySet) []series.Record {
	records, _ := NewNormalizer(categories).Normalize(table)
	return records
}
