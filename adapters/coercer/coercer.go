package coercer

import (
	"math"
	"strconv"
	"strings"
)

// NumericCoercer turns loosely typed cell text into finite numbers
type NumericCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines which lenient spellings are accepted
type CoercionConfig struct {
	StripPercent       bool    `json:"strip_percent"`       // "3.2%" -> 3.2
	ParenthesesNegate  bool    `json:"parentheses_negate"`  // "(3.2)" -> -3.2
	ThousandsSeparator bool    `json:"thousands_separator"` // "1,234.5" -> 1234.5
	MaxYearFraction    float64 `json:"max_year_fraction"`   // tolerance for "2001.0"-style years
}

// DefaultCoercionConfig returns the strict defaults: plain decimal notation only
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		MaxYearFraction: 1e-9,
	}
}

// NewNumericCoercer creates a coercer with the given config
func NewNumericCoercer(config CoercionConfig) *NumericCoercer {
	return &NumericCoercer{config: config}
}

// Float parses s as a finite float64. Empty strings, NaN and infinities are rejected.
func (c *NumericCoercer) Float(s string) (float64, bool) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, false
	}

	negate := false
	if c.config.ParenthesesNegate && strings.HasPrefix(clean, "(") && strings.HasSuffix(clean, ")") {
		clean = strings.TrimSpace(clean[1 : len(clean)-1])
		negate = true
	}
	if c.config.StripPercent {
		clean = strings.TrimSpace(strings.TrimSuffix(clean, "%"))
	}
	if c.config.ThousandsSeparator {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	if !plainDecimal(clean) {
		return 0, false
	}
	val, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(val) || math.IsInf(val, 0) {
		return 0, false
	}
	if negate {
		val = -val
	}
	return val, true
}

// Year parses s as an integral year. "2001" and "2001.0" are accepted, "2001.5" is not.
func (c *NumericCoercer) Year(s string) (int, bool) {
	if y, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if y > math.MaxInt32 || y < math.MinInt32 {
			return 0, false
		}
		return y, true
	}

	val, ok := c.Float(s)
	if !ok {
		return 0, false
	}
	rounded := math.Round(val)
	if math.Abs(val-rounded) > c.config.MaxYearFraction {
		return 0, false
	}
	if rounded > math.MaxInt32 || rounded < math.MinInt32 {
		return 0, false
	}
	return int(rounded), true
}

// plainDecimal rejects the Go-only spellings ParseFloat accepts: digit
// separators ("1_0") and hexadecimal mantissas ("0x1p-2")
func plainDecimal(s string) bool {
	if strings.ContainsRune(s, '_') {
		return false
	}
	unsigned := strings.TrimLeft(s, "+-")
	return !strings.HasPrefix(unsigned, "0x") && !strings.HasPrefix(unsigned, "0X")
}

// Flag parses the boolean spellings used by country tables. Anything unrecognised is false.
func (c *NumericCoercer) Flag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "y", "on", "x":
		return true
	}
	return false
}
