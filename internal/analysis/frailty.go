package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// FrailtyResult is the gait-derived frailty screen. It is a screening
// surrogate, not a Fried phenotype assessment.
type FrailtyResult struct {
	Score    float64  `json:"score"`    // 0-100
	Category string   `json:"category"` // robust / prefrail / frail
	Factors  []string `json:"factors"`
}

// AnalyzeFrailty screens for frailty from the session gait features. Gait
// speed below 0.8 m/s is the cardinal marker and carries the largest cap.
func AnalyzeFrailty(f GaitFeatures) FrailtyResult {
	var r FrailtyResult

	if c := stats.Ramp01(f.WalkingSpeed, 1.0, 0.4) * 40; c > 0 {
		r.Score += c
		if f.WalkingSpeed < 0.8 {
			r.Factors = append(r.Factors, "slow gait speed")
		}
	}
	if c := stats.Ramp01(f.StrideTimeCV, 4, 12) * 25; c > 0 {
		r.Score += c
		r.Factors = append(r.Factors, "irregular stride timing")
	}
	if c := stats.Ramp01(f.Cadence, 105, 70) * 20; c > 0 {
		r.Score += c
		r.Factors = append(r.Factors, "reduced cadence")
	}
	if c := stats.Ramp01(f.StepHeightVariability, 0.005, 0.030) * 15; c > 0 {
		r.Score += c
		r.Factors = append(r.Factors, "variable foot lift")
	}

	r.Score = stats.Clamp(r.Score, 0, 100)
	switch {
	case r.Score < 25:
		r.Category = "robust"
	case r.Score < 50:
		r.Category = "prefrail"
	default:
		r.Category = "frail"
	}
	return r
}
