package analysis

import (
	"math"
	"testing"
)

func TestAnalyzeSmoothnessOrdering(t *testing.T) {
	const n = 128
	const rate = 60.0

	steady := make([]float64, n)
	oscillating := make([]float64, n)
	for i := 0; i < n; i++ {
		steady[i] = 1.2
		// 3.75 Hz oscillation, well inside the SPARC band
		oscillating[i] = 1.2 + 0.5*math.Sin(2*math.Pi*8*float64(i)/n)
	}

	smooth := AnalyzeSmoothness(steady, rate)
	rough := AnalyzeSmoothness(oscillating, rate)

	if smooth.SPARC <= rough.SPARC {
		t.Errorf("steady SPARC %v should be less negative than oscillating %v", smooth.SPARC, rough.SPARC)
	}
	if smooth.Score <= rough.Score {
		t.Errorf("steady score %v should exceed oscillating %v", smooth.Score, rough.Score)
	}
	if smooth.JerkRMS >= rough.JerkRMS {
		t.Errorf("steady jerk %v should be below oscillating %v", smooth.JerkRMS, rough.JerkRMS)
	}
}

func TestAnalyzeSmoothnessSteadySignal(t *testing.T) {
	steady := make([]float64, 64)
	for i := range steady {
		steady[i] = 1.0
	}
	r := AnalyzeSmoothness(steady, 60)
	if r.SPARC >= 0 {
		t.Errorf("SPARC = %v, want negative", r.SPARC)
	}
	if r.JerkRMS != 0 {
		t.Errorf("JerkRMS = %v, want 0 for constant speed", r.JerkRMS)
	}
	if r.Score < 90 {
		t.Errorf("Score = %v, want near-perfect for constant speed", r.Score)
	}
}

func TestAnalyzeSmoothnessDegenerateInput(t *testing.T) {
	if r := AnalyzeSmoothness([]float64{1, 2}, 60); r != (SmoothnessResult{}) {
		t.Errorf("short input should yield zero result, got %+v", r)
	}
	if r := AnalyzeSmoothness(make([]float64, 64), 0); r != (SmoothnessResult{}) {
		t.Errorf("zero sample rate should yield zero result, got %+v", r)
	}
}

func TestAnalyzeSmoothnessDecimatesLongSessions(t *testing.T) {
	long := make([]float64, 20000)
	for i := range long {
		long[i] = 1.1 + 0.05*math.Sin(float64(i)/40)
	}
	// Must complete without the O(n²) DFT touching all 20k points; the
	// result only needs to be sane.
	r := AnalyzeSmoothness(long, 60)
	if r.SPARC > 0 || math.IsNaN(r.SPARC) {
		t.Errorf("SPARC = %v, want finite non-positive", r.SPARC)
	}
	if r.Score < 0 || r.Score > 100 {
		t.Errorf("Score = %v, out of [0,100]", r.Score)
	}
}
