package analysis

import (
	"math"
	"testing"
)

func seq(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func constant(v float64, n int) []float64 {
	return seq(v, 0, n)
}

func TestAnalyzeFatigueDegradingSession(t *testing.T) {
	in := FatigueInputs{
		PostureScores: seq(90, -3, 12),  // 90 down to 57
		TrunkLeans:    seq(0, 1, 12),    // 11 degrees of added lean
		LateralLeans:  seq(0, 0.5, 12),  // 5.5 degrees
		Cadences:      constant(100, 12),
		Speeds:        seq(1.2, -0.05, 12), // 0.55 m/s lost
	}
	r := AnalyzeFatigue(in)

	if math.Abs(r.PostureDrop-24) > 1e-9 {
		t.Errorf("PostureDrop = %v, want 24", r.PostureDrop)
	}
	// posture drop, lean, speed, and sway terms all saturate their caps;
	// variability and cadence contribute nothing
	if math.Abs(r.Index-70) > 1e-6 {
		t.Errorf("Index = %v, want 70", r.Index)
	}
	if !r.IsFatigued {
		t.Error("steady degradation should flag fatigue")
	}
	if math.Abs(r.PostureTrendR2-1) > 1e-9 {
		t.Errorf("PostureTrendR2 = %v, want 1 for a perfect linear decline", r.PostureTrendR2)
	}
}

func TestAnalyzeFatigueStableSession(t *testing.T) {
	in := FatigueInputs{
		PostureScores: constant(95, 20),
		TrunkLeans:    constant(2, 20),
		LateralLeans:  constant(1, 20),
		Cadences:      constant(105, 20),
		Speeds:        constant(1.3, 20),
	}
	r := AnalyzeFatigue(in)
	if r.Index != 0 {
		t.Errorf("Index = %v, want 0 for a stable session", r.Index)
	}
	if r.IsFatigued {
		t.Error("stable session flagged as fatigued")
	}
}

func TestAnalyzeFatigueTrendClause(t *testing.T) {
	// A clean but shallow decline: the index stays under 25, yet the
	// consistent downward trend alone flags fatigue.
	in := FatigueInputs{
		PostureScores: seq(93, -1, 12),
		TrunkLeans:    constant(2, 12),
		LateralLeans:  constant(1, 12),
		Cadences:      constant(100, 12),
		Speeds:        constant(1.2, 12),
	}
	r := AnalyzeFatigue(in)
	if r.Index > 25 {
		t.Fatalf("Index = %v, expected a sub-threshold index for this scenario", r.Index)
	}
	if !r.IsFatigued {
		t.Error("consistent posture decline with strong fit should flag fatigue")
	}
}

func TestAnalyzeFatigueImprovementDoesNotOffset(t *testing.T) {
	// Speed improving while posture drops: the speed term contributes zero,
	// never a negative offset.
	degradingOnly := FatigueInputs{
		PostureScores: seq(90, -3, 12),
		TrunkLeans:    constant(2, 12),
		LateralLeans:  constant(1, 12),
		Cadences:      constant(100, 12),
		Speeds:        constant(1.2, 12),
	}
	improvingSpeed := degradingOnly
	improvingSpeed.Speeds = seq(1.0, 0.05, 12)

	a := AnalyzeFatigue(degradingOnly)
	b := AnalyzeFatigue(improvingSpeed)
	if b.Index < a.Index {
		t.Errorf("improving speed lowered the index: %v < %v", b.Index, a.Index)
	}
}

func TestAnalyzeFatigueTooFewSamples(t *testing.T) {
	r := AnalyzeFatigue(FatigueInputs{PostureScores: constant(90, 5)})
	if r.Index != 0 || r.IsFatigued {
		t.Errorf("short session should yield a zero result, got %+v", r)
	}
}
