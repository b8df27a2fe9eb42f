package s2_signals

// MovingAverage returns the arithmetic mean of the last window closes.
// ok is false when the series is shorter than window.
func MovingAverage(closes []float64, window int) (value float64, ok bool) {
	window = clampWindow(window)
	n := len(closes)
	if n < window {
		return 0, false
	}

	var sum float64
	for _, c := range closes[n-window:] {
		sum += c
	}
	return sum / float64(window), true
}

// clampWindow keeps degenerate windows computable (at least the last close)
func clampWindow(window int) int {
	if window < 1 {
		return 1
	}
	return window
}
