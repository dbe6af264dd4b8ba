package stats

import "math"

// MagnitudeSpectrum computes the single-sided DFT magnitude of a real signal.
// Direct O(n²) evaluation; callers downsample long series first (the
// smoothness analyzer caps input at a few hundred points).
func MagnitudeSpectrum(signal []float64) []float64 {
	n := len(signal)
	if n == 0 {
		return nil
	}

	half := n/2 + 1
	mags := make([]float64, half)
	for k := 0; k < half; k++ {
		var re, im float64
		for t, v := range signal {
			angle := -2 * math.Pi * float64(k) * float64(t) / float64(n)
			re += v * math.Cos(angle)
			im += v * math.Sin(angle)
		}
		mags[k] = math.Hypot(re, im)
	}
	return mags
}

// SpectralArcLength computes SPARC over a magnitude spectrum sampled at
// sampleRate Hz: the spectrum is truncated at the adaptive cutoff (the last
// frequency below maxFreq whose normalized magnitude exceeds ampThreshold),
// normalized, and its arc length accumulated. More negative means less smooth.
func SpectralArcLength(mags []float64, sampleRate, maxFreq, ampThreshold float64) float64 {
	if len(mags) < 2 || mags[0] == 0 {
		return 0
	}

	norm := make([]float64, len(mags))
	for i, m := range mags {
		norm[i] = m / mags[0]
	}

	// Frequency resolution of the single-sided spectrum.
	df := sampleRate / float64(2*(len(mags)-1))

	cutoff := 1
	for i := 1; i < len(norm); i++ {
		f := float64(i) * df
		if f > maxFreq {
			break
		}
		if norm[i] >= ampThreshold {
			cutoff = i
		}
	}

	fCut := float64(cutoff) * df
	if fCut == 0 {
		return 0
	}

	var arc float64
	for i := 1; i <= cutoff; i++ {
		dFreq := df / fCut
		dAmp := norm[i] - norm[i-1]
		arc += math.Hypot(dFreq, dAmp)
	}
	return -arc
}
