package analysis

import (
	"math"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// PostureScoreInputs are the measured angles feeding the composite posture
// score. All fields are required; the per-frame analyzer always has them.
type PostureScoreInputs struct {
	CVA             float64
	SVA             float64
	Kyphosis        float64
	Lordosis        float64
	TrunkLean       float64
	ShoulderTilt    float64
	PelvicObliquity float64
}

// postureFactor scores one measurement against its ideal:
// clamp(100 × (1 − |measured − ideal| / maxDeviation), 0, 100).
type postureFactor struct {
	ideal  float64
	maxDev float64
	weight float64
}

func (f postureFactor) score(measured float64) float64 {
	return stats.Clamp(100*(1-math.Abs(measured-f.ideal)/f.maxDev), 0, 100)
}

// Factor weights sum to 1.0. Ideals follow the clinical midpoints of the
// normal bands in the thresholds package.
var postureFactors = map[string]postureFactor{
	"cva":              {ideal: 53, maxDev: 15, weight: 0.25},
	"sva":              {ideal: 1, maxDev: 6, weight: 0.20},
	"kyphosis":         {ideal: 35, maxDev: 25, weight: 0.20},
	"lordosis":         {ideal: 50, maxDev: 25, weight: 0.15},
	"trunk_lean":       {ideal: 0, maxDev: 15, weight: 0.10},
	"shoulder_tilt":    {ideal: 0, maxDev: 8, weight: 0.05},
	"pelvic_obliquity": {ideal: 0, maxDev: 8, weight: 0.05},
}

// PostureScore combines the weighted factor sub-scores into the 0-100
// composite. Pure function of its inputs.
func PostureScore(in PostureScoreInputs) float64 {
	measured := map[string]float64{
		"cva":              in.CVA,
		"sva":              in.SVA,
		"kyphosis":         in.Kyphosis,
		"lordosis":         in.Lordosis,
		"trunk_lean":       in.TrunkLean,
		"shoulder_tilt":    in.ShoulderTilt,
		"pelvic_obliquity": in.PelvicObliquity,
	}

	var total float64
	for name, f := range postureFactors {
		total += f.score(measured[name]) * f.weight
	}
	return stats.Clamp(total, 0, 100)
}

// ClassifyKendall maps the four sagittal measurements onto the Kendall
// postural types. Rules are checked in order of specificity; the combined
// kyphosis-lordosis pattern wins over either curve alone.
func ClassifyKendall(cva, sva, kyphosis, lordosis float64) models.KendallType {
	switch {
	case kyphosis > 55 && lordosis > 60:
		return models.KendallKyphosisLordosis
	case kyphosis < 20 && lordosis < 35:
		return models.KendallFlatBack
	case sva > 5 && kyphosis > 45 && lordosis < 40:
		return models.KendallSwayBack
	case cva < 45 || sva > 6:
		return models.KendallForwardHead
	default:
		return models.KendallIdeal
	}
}
