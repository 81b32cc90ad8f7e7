package viewport

import "math"

func clampValMinMax(v, minimum, maximum float64) float64 {
	return max(minimum, min(maximum, v))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
