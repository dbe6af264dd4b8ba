package analysis

import (
	"math"

	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// SPARC parameters: standard 10 Hz band, 5% amplitude threshold.
const (
	sparcMaxFreq      = 10.0
	sparcAmpThreshold = 0.05
	sparcMaxPoints    = 256
)

// SmoothnessResult is the session movement-smoothness assessment.
type SmoothnessResult struct {
	SPARC   float64 `json:"sparc"`    // spectral arc length, more negative = less smooth
	JerkRMS float64 `json:"jerk_rms"` // m/s³ on the speed profile
	Score   float64 `json:"score"`    // 0-100, higher = smoother
}

// AnalyzeSmoothness computes SPARC and RMS jerk over the session speed
// profile sampled at sampleRate Hz. Long profiles are decimated to keep the
// direct DFT cheap.
func AnalyzeSmoothness(speeds []float64, sampleRate float64) SmoothnessResult {
	var r SmoothnessResult
	if len(speeds) < 4 || sampleRate <= 0 {
		return r
	}

	signal, rate := decimateTo(speeds, sampleRate, sparcMaxPoints)

	mags := stats.MagnitudeSpectrum(signal)
	r.SPARC = stats.SpectralArcLength(mags, rate, sparcMaxFreq, sparcAmpThreshold)

	dt := 1 / rate
	var sumSq float64
	n := 0
	for i := 2; i < len(signal); i++ {
		accel1 := (signal[i-1] - signal[i-2]) / dt
		accel2 := (signal[i] - signal[i-1]) / dt
		jerk := (accel2 - accel1) / dt
		sumSq += jerk * jerk
		n++
	}
	if n > 0 {
		r.JerkRMS = math.Sqrt(sumSq / float64(n))
	}

	// SPARC for healthy gait sits near −1.4; −6 and beyond is markedly
	// unsmooth movement.
	r.Score = stats.Ramp01(r.SPARC, -6, -1.4) * 100
	return r
}

// decimateTo thins a series to at most maxPoints, returning the new series
// and its effective sample rate.
func decimateTo(series []float64, rate float64, maxPoints int) ([]float64, float64) {
	if len(series) <= maxPoints {
		return series, rate
	}
	stride := (len(series) + maxPoints - 1) / maxPoints
	out := make([]float64, 0, maxPoints)
	for i := 0; i < len(series); i += stride {
		out = append(out, series[i])
	}
	return out, rate / float64(stride)
}
