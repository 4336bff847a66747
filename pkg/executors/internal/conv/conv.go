// Package conv holds the small ad-hoc value-coercion helpers every
// executor family in pkg/executors reaches for when reading a control or
// input value out of the untyped any the scheduler hands it. Coercions
// are deliberately per-pair and ad hoc rather than a generic "cast"
// utility: each helper documents exactly which widenings it accepts.
package conv

import (
	"fmt"
	"strconv"
)

// Float reads v as a float64, falling back to def when v is nil or not
// numeric. Accepts the JSON-decoded float64 the scheduler's gather
// produces as well as other Go numeric kinds and numeric strings, so a
// control typed "number" in the UI and a port fed from a string-producing
// upstream both work.
func Float(v any, def float64) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case bool:
		if n {
			return 1
		}
		return 0
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f
		}
	}
	return def
}

// Bool reads v as a boolean by truthiness: zero/empty/false-like values
// are false, everything else is true. Matches the number<->boolean
// widening documented in pkg/types.Coerce.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case float64:
		return b != 0
	case int:
		return b != 0
	case string:
		switch b {
		case "", "false", "0":
			return false
		default:
			return true
		}
	case nil:
		return false
	default:
		return true
	}
}

// String reads v as a display string. A float64 is formatted in its
// shortest 'g' form, so very large or very small magnitudes come out in
// exponent notation (1e+21).
func String(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'g', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", s)
	}
}

// Int reads v as an int, truncating a float64 toward zero.
func Int(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}
