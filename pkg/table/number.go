package table

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Coerce converts a raw cell into a finite number. Empty, malformed and
// non-finite cells become 0 so that one bad cell never aborts an aggregation.
// Thousands separators are stripped before parsing.
func Coerce(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := cast.ToFloat64E(strings.ReplaceAll(s, ",", ""))
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
