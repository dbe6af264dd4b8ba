package analysis

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// Fall-risk feature vector layout, fixed since training-data generation:
// [speed, strideCV, doubleSupport, stepWidthSD, sway, stepAsym, tug,
// clearance], absent values as FeatureSentinel. Model output: [riskScore].
const fallRiskModelID = "fallrisk-v2"

// NewFallRiskDualPath wires the fall-risk assessment through the
// infer-or-fallback contract. The contributing-factor list always comes from
// the rule-based path; only the score and level may come from inference.
func NewFallRiskDualPath(provider ModelProvider, enabled bool, logger *zap.Logger) *DualPath[FallRiskInputs, FallRiskResult] {
	return &DualPath[FallRiskInputs, FallRiskResult]{
		Name:     "fall_risk",
		Provider: provider,
		ModelID:  fallRiskModelID,
		Enabled:  enabled,
		Logger:   logger,
		Rules:    AnalyzeFallRisk,
		Encode: func(in FallRiskInputs) ([]float64, error) {
			return []float64{
				SentinelValue(in.WalkingSpeed),
				SentinelValue(in.StrideTimeCV),
				SentinelValue(in.DoubleSupportPct),
				SentinelValue(in.StepWidthSD),
				SentinelValue(in.SwayVelocity),
				SentinelValue(in.StepAsymmetry),
				SentinelValue(in.TUGSeconds),
				SentinelValue(in.FootClearance),
			}, nil
		},
		Decode: func(_ FallRiskInputs, outputs []float64) (FallRiskResult, error) {
			if len(outputs) < 1 {
				return FallRiskResult{}, fmt.Errorf("fall-risk model returned %d outputs, want 1", len(outputs))
			}
			score := stats.Clamp(outputs[0], 0, 100)
			r := FallRiskResult{Score: score}
			switch {
			case score >= 60:
				r.Level = "high"
			case score >= 30:
				r.Level = "moderate"
			default:
				r.Level = "low"
			}
			return r, nil
		},
		Merge: func(ruleOut, inferred FallRiskResult) FallRiskResult {
			inferred.Factors = ruleOut.Factors
			inferred.FactorScores = ruleOut.FactorScores
			inferred.Coverage = ruleOut.Coverage
			return inferred
		},
	}
}
