package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// PickPrice returns the first present candidate, in priority order. Zero
// and NaN mean absent. A present price outside the open interval (0,1) is a
// settled or broken quote and rejects the record rather than falling
// through to a lower-priority field.
func PickPrice(candidates ...float64) (float64, bool) {
	for _, c := range candidates {
		if math.IsNaN(c) || c == 0 {
			continue
		}
		if !InRange(c) {
			return 0, false
		}
		return c, true
	}
	return 0, false
}

// InRange reports whether p is a tradeable probability price.
func InRange(p float64) bool {
	return p > 0 && p < 1
}

// Complement returns 1-p without binary float residue (1-0.7 is 0.3).
func Complement(p float64) float64 {
	return decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p)).InexactFloat64()
}

// centsToProb scales a Kalshi cent price (0..100) to a probability.
func centsToProb(v float64) float64 {
	return decimal.NewFromFloat(v).Div(decimal.NewFromInt(100)).InexactFloat64()
}

// parseDollars parses a Kalshi "_dollars" string field; empty or malformed
// values read as absent.
func parseDollars(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

// firstPresent returns the first non-zero value.
func firstPresent(vs ...float64) float64 {
	for _, v := range vs {
		if v != 0 {
			return v
		}
	}
	return 0
}
