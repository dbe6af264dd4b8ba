package analysis

import (
	"math"
	"testing"
)

func fp(v float64) *float64 { return &v }

func TestAnalyzeFallRiskHighRiskProfile(t *testing.T) {
	r := AnalyzeFallRisk(FallRiskInputs{
		WalkingSpeed:     fp(0.55),
		StrideTimeCV:     fp(9),
		DoubleSupportPct: fp(40),
		StepWidthSD:      fp(4.5),
		SwayVelocity:     fp(35),
		StepAsymmetry:    fp(18),
		TUGSeconds:       fp(18),
		FootClearance:    fp(0.012),
	})

	if r.Level != "high" {
		t.Errorf("Level = %q, want high", r.Level)
	}
	if r.Score < 60 {
		t.Errorf("Score = %v, want >= 60", r.Score)
	}
	if r.Coverage != 1 {
		t.Errorf("Coverage = %v, want 1 with all factors present", r.Coverage)
	}
	if len(r.Factors) == 0 {
		t.Error("high-risk profile should name contributing factors")
	}
}

func TestAnalyzeFallRiskSafeProfile(t *testing.T) {
	r := AnalyzeFallRisk(FallRiskInputs{
		WalkingSpeed:     fp(1.35),
		StrideTimeCV:     fp(1.5),
		DoubleSupportPct: fp(18),
		SwayVelocity:     fp(8),
	})
	if r.Score != 0 {
		t.Errorf("Score = %v, want 0 for all-safe measurements", r.Score)
	}
	if r.Level != "low" {
		t.Errorf("Level = %q, want low", r.Level)
	}
	if len(r.Factors) != 0 {
		t.Errorf("Factors = %v, want none", r.Factors)
	}
}

func TestAnalyzeFallRiskCoverageDiscountsSparseData(t *testing.T) {
	// A single maximally risky factor scores 100 but coverage caps the
	// composite at one third.
	r := AnalyzeFallRisk(FallRiskInputs{WalkingSpeed: fp(0.3)})
	if math.Abs(r.Coverage-1.0/3) > 1e-9 {
		t.Errorf("Coverage = %v, want 1/3", r.Coverage)
	}
	if math.Abs(r.Score-100.0/3) > 1e-6 {
		t.Errorf("Score = %v, want %v", r.Score, 100.0/3)
	}
	if r.Level != "moderate" {
		t.Errorf("Level = %q, want moderate", r.Level)
	}
}

func TestAnalyzeFallRiskNoInputs(t *testing.T) {
	r := AnalyzeFallRisk(FallRiskInputs{})
	if r.Score != 0 || r.Level != "low" {
		t.Errorf("empty inputs: score %v level %q, want 0 low", r.Score, r.Level)
	}
}

func TestAnalyzeFallRiskBounds(t *testing.T) {
	// Everything far past the risky end still clamps to 100.
	r := AnalyzeFallRisk(FallRiskInputs{
		WalkingSpeed:     fp(0.1),
		StrideTimeCV:     fp(50),
		DoubleSupportPct: fp(80),
		StepWidthSD:      fp(20),
		SwayVelocity:     fp(200),
		StepAsymmetry:    fp(90),
		TUGSeconds:       fp(60),
		FootClearance:    fp(0.001),
	})
	if r.Score > 100 || r.Score < 0 {
		t.Errorf("Score = %v, out of [0,100]", r.Score)
	}
	if r.Score != 100 {
		t.Errorf("Score = %v, want saturated 100", r.Score)
	}
}
