package analysis

import "math"

// DominantBin returns the strongest non-DC bin of the power spectrum of a
// mean-removed series, and the padded length the bin refers to.
func DominantBin(series []float64) (bin, n int) {
	if len(series) < 4 {
		return 0, 0
	}
	mean := 0.0
	for _, v := range series {
		mean += v
	}
	mean /= float64(len(series))

	centered := make([]float64, len(series))
	for i, v := range series {
		centered[i] = v - mean
	}
	padded := PadPow2(centered)
	ps := PowerSpectrum(padded)

	best := 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > best {
			best, bin = ps[i], i
		}
	}
	return bin, len(padded)
}

// OrbitalPeriod estimates the period, in samples, of a periodic series.
// ok is false when the series is too short or flat, or when less than one
// full period was recorded.
func OrbitalPeriod(series []float64) (float64, bool) {
	bin, n := DominantBin(series)
	if bin == 0 {
		return 0, false
	}
	period := float64(n) / float64(bin)
	if period > float64(len(series)) {
		return period, false
	}
	return period, true
}

// ExpectedPeriod is the number of frames one orbit takes at the given
// angular speed, frame step and multiplier. It is +Inf when stationary.
func ExpectedPeriod(speed, frameDt, multiplier float64) float64 {
	step := speed * frameDt * multiplier
	if step <= 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / step
}
