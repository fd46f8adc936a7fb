package returns

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// ParseNumber converts a raw cell into a number.
//
// Single and double quotes are removed wherever they appear and surrounding
// spaces are trimmed before the text is parsed as a float. It returns false
// when the cell does not hold a number; a "NaN" token is not a number either.
// Digit separators such as "1_000" are rejected. Infinities are accepted, and
// so are tokens too large for a float64, which read as an infinity of their
// sign.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(stripQuotes(text))
	if strings.ContainsRune(s, '_') {
		return math.NaN(), false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !(errors.Is(err, strconv.ErrRange) && math.IsInf(v, 0)) {
		return math.NaN(), false
	}
	if math.IsNaN(v) {
		return math.NaN(), false
	}
	return v, true
}

var quoteRemover = strings.NewReplacer(`"`, "", `'`, "")

// stripQuotes removes every single and double quote from s.
func stripQuotes(s string) string { return quoteRemover.Replace(s) }
