package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// CrossedInputs are the session-average postural measurements feeding the
// Janda crossed-syndrome detectors. HipFlexionDeficit is degrees of hip
// extension lost against the normative band.
type CrossedInputs struct {
	CVA               float64
	SVA               float64
	Kyphosis          float64
	Lordosis          float64
	TrunkLean         float64
	ShoulderTilt      float64
	HipFlexionDeficit float64
}

// CrossedResult carries both syndrome scores with their contributing
// factors. A syndrome flags at score > 50.
type CrossedResult struct {
	UpperScore   float64  `json:"upper_score"` // 0-100
	LowerScore   float64  `json:"lower_score"` // 0-100
	Upper        bool     `json:"upper"`
	Lower        bool     `json:"lower"`
	UpperFactors []string `json:"upper_factors"`
	LowerFactors []string `json:"lower_factors"`
}

// AnalyzeCrossedSyndromes scores the upper and lower crossed postural
// patterns with capped additive contributions per factor, the same shape as
// the composite scorers. Pure function of its inputs.
func AnalyzeCrossedSyndromes(in CrossedInputs) CrossedResult {
	var r CrossedResult

	// Upper crossed: forward head carriage, hyperkyphosis, anterior head
	// translation. Caps 45/35/20.
	if c := stats.Ramp01(in.CVA, 50, 35) * 45; c > 0 {
		r.UpperScore += c
		r.UpperFactors = append(r.UpperFactors, "forward head posture (reduced CVA)")
	}
	if c := stats.Ramp01(in.Kyphosis, 45, 65) * 35; c > 0 {
		r.UpperScore += c
		r.UpperFactors = append(r.UpperFactors, "increased thoracic kyphosis")
	}
	if c := stats.Ramp01(in.SVA, 4, 9) * 20; c > 0 {
		r.UpperScore += c
		r.UpperFactors = append(r.UpperFactors, "anterior head translation")
	}

	// Lower crossed: hyperlordosis, anterior trunk carriage, hip flexor
	// tightness. Caps 45/25/30.
	if c := stats.Ramp01(in.Lordosis, 60, 80) * 45; c > 0 {
		r.LowerScore += c
		r.LowerFactors = append(r.LowerFactors, "increased lumbar lordosis")
	}
	if c := stats.Ramp01(in.TrunkLean, 5, 15) * 25; c > 0 {
		r.LowerScore += c
		r.LowerFactors = append(r.LowerFactors, "anterior trunk lean")
	}
	if c := stats.Ramp01(in.HipFlexionDeficit, 0, 20) * 30; c > 0 {
		r.LowerScore += c
		r.LowerFactors = append(r.LowerFactors, "restricted hip extension")
	}

	r.UpperScore = stats.Clamp(r.UpperScore, 0, 100)
	r.LowerScore = stats.Clamp(r.LowerScore, 0, 100)
	r.Upper = r.UpperScore > 50
	r.Lower = r.LowerScore > 50
	return r
}
