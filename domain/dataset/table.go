package dataset

import "strings"

// RawRow is one row of a tabular source as header-keyed strings
type RawRow map[string]string

// Table is a parsed tabular source before normalization
type Table struct {
	Source  string   `json:"source"`
	Headers []string `json:"headers"`
	Rows    []RawRow `json:"-"`
}

// Len returns the number of data rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// FindColumn returns the first header matching one of aliases, ignoring case and
// surrounding whitespace
func (t *Table) FindColumn(aliases ...string) (string, bool) {
	if t == nil {
		return "", false
	}
	for _, alias := range aliases {
		for _, h := range t.Headers {
			if strings.EqualFold(strings.TrimSpace(h), alias) {
				return h, true
			}
		}
	}
	return "", false
}

// NewTable builds a Table from a header row and data rows, the shape produced by
// CSV and spreadsheet readers. Short rows leave trailing columns empty; extra cells
// are ignored.
func NewTable(source string, rows [][]string) *Table {
	t := &Table{Source: source}
	if len(rows) == 0 {
		return t
	}

	t.Headers = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Headers[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t.Rows = make([]RawRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := make(RawRow, len(t.Headers))
		for j, h := range t.Headers {
			if j < len(row) {
				raw[h] = strings.TrimSpace(row[j])
			} else {
				raw[h] = ""
			}
		}
		t.Rows = append(t.Rows, raw)
	}
	return t
}
