package gapfill

import "math"

// Missing is the in-memory marker for an absent reading.
var Missing = math.NaN()

// IsMissing reports whether v stands for an absent reading.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// Lerp returns a + (b-a)*ratio, or Missing when either bound is missing.
func Lerp(a, b, ratio float64) float64 {
	if IsMissing(a) || IsMissing(b) {
		return Missing
	}
	return a + (b-a)*ratio
}

// LerpStep returns the value k steps of n along the way from a to b.
// Multiplying before dividing keeps evenly spaced integer data exact.
func LerpStep(a, b float64, k, n int) float64 {
	if IsMissing(a) || IsMissing(b) || n == 0 {
		return Missing
	}
	return a + (b-a)*float64(k)/float64(n)
}

// RoundTo rounds x to the nearest multiple of unit, ties to even.
// RoundTo(x, 0.5) == round(2x)/2.
func RoundTo(x, unit float64) float64 {
	if IsMissing(x) || unit <= 0 {
		return x
	}
	return math.RoundToEven(x/unit) * unit
}

// InterpolateLinear fills missing values in place using row position as the axis.
// Non-finite values count as missing. Runs without a present neighbour on both
// sides are left missing. It returns the number of values filled.
func InterpolateLinear(values []float64) int {
	filled := 0
	left := -1
	for i, v := range values {
		if IsMissing(v) || math.IsInf(v, 0) {
			values[i] = Missing
			continue
		}
		if left >= 0 && i-left > 1 {
			for j := left + 1; j < i; j++ {
				values[j] = LerpStep(values[left], v, j-left, i-left)
				if !math.IsInf(values[j], 0) && !IsMissing(values[j]) {
					filled++
				} else {
					values[j] = Missing
				}
			}
		}
		left = i
	}
	return filled
}
