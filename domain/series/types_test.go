package series

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCategorySet_OrderAndDuplicates(t *testing.T) {
	set := NewCategorySet("B", " A ", "B", "", "C")

	assert.Equal(t, []Category{"B", "A", "C"}, set.Categories())
	assert.Equal(t, 3, set.Len())
	assert.True(t, set.Contains("A"))
	assert.False(t, set.Contains(" A "))
}

func TestCategorySet_Resolve(t *testing.T) {
	set := DefaultCategories()

	c, ok := set.Resolve("  high INCOME ")
	assert.True(t, ok)
	assert.Equal(t, HighIncome, c)

	_, ok = set.Resolve("Low income")
	assert.False(t, ok)
}

func TestParseCategories(t *testing.T) {
	set := ParseCategories("Low income, Lower-middle income,,High income")
	assert.Equal(t, []Category{"Low income", LowerMiddleIncome, HighIncome}, set.Categories())
}

func TestValueLookup_Get(t *testing.T) {
	l := ValueLookup{HighIncome: {2010: 5.5}}

	v, ok := l.Get(HighIncome, 2010)
	assert.True(t, ok)
	assert.Equal(t, 5.5, v)

	_, ok = l.Get(HighIncome, 2011)
	assert.False(t, ok)
	_, ok = l.Get(LowerMiddleIncome, 2010)
	assert.False(t, ok)
}

func TestTrend_At(t *testing.T) {
	tr := Trend{Slope: 0.5, Intercept: -1000}
	assert.InDelta(t, 5.0, tr.At(2010), 1e-9)
}
