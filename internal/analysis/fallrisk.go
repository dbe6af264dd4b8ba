package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// FallRiskInputs are the fall-risk factors. Nil fields are factors the
// session could not measure; they drop out of both the weighted numerator
// and the weight denominator (coverage-weighted scoring).
type FallRiskInputs struct {
	WalkingSpeed     *float64 // m/s
	StrideTimeCV     *float64 // %
	DoubleSupportPct *float64 // %
	StepWidthSD      *float64 // cm
	SwayVelocity     *float64 // mm/s
	StepAsymmetry    *float64 // Robinson %
	TUGSeconds       *float64 // timed up-and-go, seconds
	FootClearance    *float64 // m
}

// FallRiskResult is the composite fall-risk assessment.
type FallRiskResult struct {
	Score        float64            `json:"score"` // 0-100, higher = more risk
	Level        string             `json:"level"` // low / moderate / high
	Coverage     float64            `json:"coverage"`
	FactorScores map[string]float64 `json:"factor_scores"`
	Factors      []string           `json:"factors"` // human-readable contributors
}

// fallRiskFactor ramps a measurement onto 0-100 risk between its safe and
// dangerous ends. Weights sum to 1.0.
type fallRiskFactor struct {
	name   string
	weight float64
	safe   float64
	risky  float64
	reason string
}

// Cut points follow the gait-lab fall-risk literature: speed below 0.6 m/s,
// stride CV above 9%, double support above 38%, TUG at or past 13.5 s all
// mark elevated fall probability.
var fallRiskFactors = []fallRiskFactor{
	{"walking_speed", 0.20, 1.2, 0.4, "slow walking speed"},
	{"stride_time_cv", 0.15, 2, 10, "high stride-to-stride variability"},
	{"tug_seconds", 0.15, 8, 20, "prolonged timed up-and-go"},
	{"double_support_pct", 0.10, 20, 45, "extended double-support phase"},
	{"step_width_sd", 0.10, 1.5, 5.5, "inconsistent step width"},
	{"sway_velocity", 0.10, 10, 40, "elevated postural sway"},
	{"step_asymmetry", 0.10, 4, 20, "step timing asymmetry"},
	{"foot_clearance", 0.10, 0.035, 0.008, "reduced foot clearance"},
}

// AnalyzeFallRisk computes the coverage-weighted composite:
// Σ(scoreᵢ·weightᵢ) / Σ(weightᵢ present) × coverage, where coverage =
// min(1, present/3). A sparse assessment never reads as confident as a fully
// instrumented one. Pure function of its inputs.
func AnalyzeFallRisk(in FallRiskInputs) FallRiskResult {
	values := map[string]*float64{
		"walking_speed":      in.WalkingSpeed,
		"stride_time_cv":     in.StrideTimeCV,
		"tug_seconds":        in.TUGSeconds,
		"double_support_pct": in.DoubleSupportPct,
		"step_width_sd":      in.StepWidthSD,
		"sway_velocity":      in.SwayVelocity,
		"step_asymmetry":     in.StepAsymmetry,
		"foot_clearance":     in.FootClearance,
	}

	r := FallRiskResult{FactorScores: map[string]float64{}}

	var weightedSum, weightSum float64
	present := 0
	for _, f := range fallRiskFactors {
		v := values[f.name]
		if v == nil {
			continue
		}
		score := stats.Ramp01(*v, f.safe, f.risky) * 100
		r.FactorScores[f.name] = score
		weightedSum += score * f.weight
		weightSum += f.weight
		present++
		if score >= 50 {
			r.Factors = append(r.Factors, f.reason)
		}
	}

	if present == 0 {
		r.Level = "low"
		return r
	}

	r.Coverage = stats.Clamp(float64(present)/3, 0, 1)
	r.Score = stats.Clamp(weightedSum/weightSum*r.Coverage, 0, 100)
	switch {
	case r.Score >= 60:
		r.Level = "high"
	case r.Score >= 30:
		r.Level = "moderate"
	default:
		r.Level = "low"
	}
	return r
}
