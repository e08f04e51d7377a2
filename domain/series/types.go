package series

import "strings"

// Category is one label of the closed classification set (an income group in the
// sample data)
type Category string

// String returns the label
func (c Category) String() string { return string(c) }

// Default income groups, in display order
const (
	HighIncome        Category = "High income"
	UpperMiddleIncome Category = "Upper-middle income"
	LowerMiddleIncome Category = "Lower-middle income"
)

// DefaultBaselineStart and DefaultBaselineEnd bound the reference period used for
// percent-change calculations in the sample dataset
const (
	DefaultBaselineStart = 2000
	DefaultBaselineEnd   = 2005
)

// CategorySet is the closed, ordered set of known categories. The order is the
// display order used by every row-producing query.
type CategorySet struct {
	order []Category
	index map[Category]int
}

// NewCategorySet builds a set from labels in display order. Blank labels and
// duplicates are skipped.
func NewCategorySet(labels ...Category) CategorySet {
	set := CategorySet{index: make(map[Category]int, len(labels))}
	for _, label := range labels {
		label = Category(strings.TrimSpace(string(label)))
		if label == "" {
			continue
		}
		if _, dup := set.index[label]; dup {
			continue
		}
		set.index[label] = len(set.order)
		set.order = append(set.order, label)
	}
	return set
}

// DefaultCategories returns the three income groups of the sample dataset
func DefaultCategories() CategorySet {
	return NewCategorySet(HighIncome, UpperMiddleIncome, LowerMiddleIncome)
}

// ParseCategories splits a comma-separated list into a CategorySet
func ParseCategories(list string) CategorySet {
	parts := strings.Split(list, ",")
	labels := make([]Category, 0, len(parts))
	for _, p := range parts {
		labels = append(labels, Category(p))
	}
	return NewCategorySet(labels...)
}

// Contains reports whether c is a member of the set
func (s CategorySet) Contains(c Category) bool {
	_, ok := s.index[c]
	return ok
}

// Len returns the number of categories
func (s CategorySet) Len() int { return len(s.order) }

// Categories returns a copy of the categories in display order
func (s CategorySet) Categories() []Category {
	out := make([]Category, len(s.order))
	copy(out, s.order)
	return out
}

// Resolve maps a raw label onto a member of the set. Matching ignores surrounding
// whitespace and letter case.
func (s CategorySet) Resolve(label string) (Category, bool) {
	trimmed := strings.TrimSpace(label)
	if c := Category(trimmed); s.Contains(c) {
		return c, true
	}
	for _, c := range s.order {
		if strings.EqualFold(string(c), trimmed) {
			return c, true
		}
	}
	return "", false
}

// Record is one validated (year, category, value) observation. Records are only
// constructed by the loader; both numeric fields are always finite.
type Record struct {
	Year      int      `json:"year"`
	Category  Category `json:"category"`
	RawValue  float64  `json:"raw_value"`
	PctChange float64  `json:"pct_change"`
}

// CategorySeries is the year-ordered subsequence of records for one category
type CategorySeries []Record

// Years returns the years of the series in order
func (cs CategorySeries) Years() []int {
	years := make([]int, len(cs))
	for i, r := range cs {
		years[i] = r.Year
	}
	return years
}

// YearBand is the cross-category spread of percent change for one year
type YearBand struct {
	Year int     `json:"year"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Mid  float64 `json:"mid"`
}

// Width returns max - min
func (b YearBand) Width() float64 { return b.Max - b.Min }

// ValueLookup indexes percent change by category and year
type ValueLookup map[Category]map[int]float64

// Get returns the value stored for (category, year)
func (l ValueLookup) Get(c Category, year int) (float64, bool) {
	years, ok := l[c]
	if !ok {
		return 0, false
	}
	v, ok := years[year]
	return v, ok
}

// CategoryValue is one row of a point query
type CategoryValue struct {
	Category Category `json:"category"`
	Value    float64  `json:"value"`
}

// Trend is a least-squares line of percent change over year for one category
type Trend struct {
	Category  Category `json:"category"`
	Slope     float64  `json:"slope"`
	Intercept float64  `json:"intercept"`
	Points    int      `json:"points"`
}

// At evaluates the trend line at year
func (t Trend) At(year int) float64 {
	return t.Intercept + t.Slope*float64(year)
}

// Extent is a closed [Min, Max] interval
type Extent struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}
