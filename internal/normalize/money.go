package normalize

import (
	"math"
	"strconv"
	"strings"
)

// ParseMoneyCents parses a Brazilian-locale currency string ("." thousands,
// "," decimal) into int64 cents. Missing or unparseable values coerce to 0;
// ok is false so callers can count the coercion.
func ParseMoneyCents(s string) (cents int64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return int64(math.Round(v * 100)), true
}

// FormatMoney renders int64 cents back to the Brazilian locale, e.g.
// 123456 → "1.234,56". Exports round-trip through ParseMoneyCents.
func FormatMoney(cents int64) string {
	neg := cents < 0
	if neg {
		cents = -cents
	}
	whole := cents / 100
	frac := cents % 100

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(digits[i : i+3])
	}

	out := b.String() + "," + pad2(frac)
	if neg {
		return "-" + out
	}
	return out
}

func pad2(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}

// CentsToFloat converts cents to a float64 currency amount for ratio and
// quantile computations.
func CentsToFloat(cents int64) float64 {
	return float64(cents) / 100
}
