package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseAmount coerces a loosely-typed remote value into a number.
// Backend documents carry prices as JSON numbers, numeric strings
// ("5000", "₹5,000") or json.Number depending on the column.
// Returns false when no number can be extracted.
// Examples: 5000 → 5000, "5,000" → 5000, "₹ 4500.50" → 4500.5, "" → false
func ParseAmount(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	case string:
		return parseAmountString(x)
	default:
		return 0, false
	}
}

// parseAmountString strips currency symbols, grouping commas and spaces.
func parseAmountString(s string) (float64, bool) {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ',', r == ' ', r == '₹', r == '$':
			// grouping and currency markers
		default:
			if b.Len() > 0 {
				// "5000/month" - stop at the first unit suffix
				return finishAmount(b.String())
			}
		}
	}
	return finishAmount(b.String())
}

func finishAmount(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatAmount renders an amount without a trailing ".00" for whole values.
// Examples: 5000 → "5000", 4500.5 → "4500.50"
func FormatAmount(f float64) string {
	if f == math.Trunc(f) {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'f', 2, 64)
}
