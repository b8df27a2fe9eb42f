package s2_signals

// Momentum returns close[last] / close[len-window] - 1.
// ok is false when the series is shorter than window.
// A zero start price yields ±Inf or NaN; no clamping is applied.
func Momentum(closes []float64, window int) (value float64, ok bool) {
	window = clampWindow(window)
	n := len(closes)
	if n < window {
		return 0, false
	}

	start := closes[n-window]
	return closes[n-1]/start - 1, true
}
