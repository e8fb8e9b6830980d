package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseCell converts a raw CSV cell into a float64 count. Empty cells and
// unparseable text become NaN, mirroring how the source reports leave early
// pandemic counts blank. Thousands separators are tolerated.
func ParseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	s = strings.ReplaceAll(s, ",", "")
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return math.NaN()
}

// FormatCount renders a count for CSV/TSV output. Missing values become
// empty cells; whole numbers drop the decimal point.
func FormatCount(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ClampPercent forces a sample percentage into the [1, 50] window the
// original app allows. Zero means sampling is off and passes through.
func ClampPercent(pct int) int {
	if pct <= 0 {
		return 0
	}
	if pct > 50 {
		return 50
	}
	return pct
}
