package detect

import (
	"math"
	"sort"
)

// Quantile returns the q-th quantile of values using linear interpolation
// between closest ranks. Returns NaN for an empty slice; callers guard
// against empty input before depending on the result.
func Quantile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// IQRUpperFence returns Q3 + mult*(Q3-Q1) for the given values.
func IQRUpperFence(values []float64, mult float64) float64 {
	q1 := Quantile(values, 0.25)
	q3 := Quantile(values, 0.75)
	return q3 + mult*(q3-q1)
}
