package rating

import (
	"math"
	"strconv"
	"strings"
)

// Scale bounds for normalized ratings.
const (
	Min = 0.0
	Max = 5.0
)

var wordNumbers = map[string]float64{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
}

var qualitative = map[string]float64{
	"excellent": 5, "amazing": 5, "perfect": 5, "awesome": 5, "fantastic": 5,
	"great": 4.5,
	"good": 4,
	"okay": 3, "ok": 3, "average": 3, "decent": 3, "fine": 3,
	"mediocre": 2.5,
	"poor": 2, "disappointing": 2,
	"bad": 1.5,
	"terrible": 1, "awful": 1, "horrible": 1, "worst": 1,
}

// Normalize maps heterogeneous rating text onto the [0,5] scale: star glyphs,
// "N stars" forms, x/y fractions, percentages, bare numbers (10-point and
// 100-point inputs are rescaled) and qualitative words. Unrecognized input
// yields nil rather than a guessed value.
func Normalize(raw string) *float64 {
	s := commaDecimal(strings.ToLower(strings.TrimSpace(raw)))
	if s == "" {
		return nil
	}

	if n := strings.Count(s, "★") + strings.Count(s, "⭐"); n > 0 {
		return clamp(float64(n))
	}
	if strings.Contains(s, "star") {
		if v, ok := firstValue(s); ok {
			return clamp(v)
		}
	}
	if n := asteriskRun(s); n > 0 {
		return clamp(float64(n))
	}
	if v, ok := numeric(s); ok {
		return clamp(v)
	}
	for _, tok := range tokens(s) {
		if v, ok := wordNumbers[tok]; ok {
			return clamp(v)
		}
		if v, ok := qualitative[tok]; ok {
			return clamp(v)
		}
	}
	return nil
}

// numeric parses a payload that is nothing but a rating number:
// "90%", "x/y" fractions, or a bare value on a 5, 10 or 100 point scale.
func numeric(s string) (float64, bool) {
	if p, ok := strings.CutSuffix(s, "%"); ok {
		n, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || n < 0 {
			return 0, false
		}
		return n / 20, true
	}
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d <= 0 || n < 0 {
			return 0, false
		}
		return n / d * 5, true
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	switch {
	case n <= 5:
		return n, true
	case n <= 10:
		return n / 2, true
	case n <= 100:
		return n / 20, true
	}
	return 0, false
}

// firstValue returns the first numeric or word-number token, for forms like
// "3 stars", "(4 stars)" or "three stars".
func firstValue(s string) (float64, bool) {
	for _, tok := range tokens(s) {
		if n, err := strconv.ParseFloat(tok, 64); err == nil && n >= 0 {
			return n, true
		}
		if v, ok := wordNumbers[tok]; ok {
			return v, true
		}
	}
	return 0, false
}

// asteriskRun counts "*" ratings; anything beyond stars and spaces disqualifies.
func asteriskRun(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case '*':
			n++
		case ' ':
		default:
			return 0
		}
	}
	return n
}

func tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9') && r != '.'
	})
}

// commaDecimal rewrites a decimal comma between digits ("4,5") to a dot.
func commaDecimal(s string) string {
	b := []byte(s)
	for i := 1; i+1 < len(b); i++ {
		if b[i] == ',' && isDigit(b[i-1]) && isDigit(b[i+1]) {
			b[i] = '.'
		}
	}
	return string(b)
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// clamp bounds v to the scale and rounds to two decimals so values survive
// an export/re-ingest cycle unchanged.
func clamp(v float64) *float64 {
	if v < Min {
		v = Min
	}
	if v > Max {
		v = Max
	}
	v = math.Round(v*100) / 100
	return &v
}
