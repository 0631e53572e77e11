package decline

import "math"

func mean(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += float64(v)
	}
	return sum / float64(len(values))
}

func maxOf(values []int) int {
	var peak int
	for i, v := range values {
		if i == 0 || v > peak {
			peak = v
		}
	}
	return peak
}

// olsSlope fits y against x = 0..n-1 by ordinary least squares and returns
// the slope. Fewer than two points have no slope.
func olsSlope(y []int) float64 {
	n := len(y)
	if n < 2 {
		return 0
	}

	meanX := float64(n-1) / 2
	meanY := mean(y)

	var sxy, sxx float64
	for i, v := range y {
		dx := float64(i) - meanX
		sxy += dx * (float64(v) - meanY)
		sxx += dx * dx
	}
	return sxy / sxx
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

func percent(from, to float64) int {
	pct := int(math.Round(100 * (from - to) / from))
	return min(max(pct, 0), 100)
}
