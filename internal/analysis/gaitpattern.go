package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// GaitClassification is the result of the eight-way gait pattern rule set.
// Every per-category score is retained as a soft confidence in [0,1].
type GaitClassification struct {
	Pattern models.GaitPattern             `json:"pattern"`
	Scores  map[models.GaitPattern]float64 `json:"scores"`
}

// Pathological category rules. Each combines two to four gait features, every
// sub-term clamped to [0,1], with per-category weights summing to at most 1.
var gaitRules = []struct {
	pattern models.GaitPattern
	score   func(f GaitFeatures) float64
}{
	{models.GaitAntalgic, func(f GaitFeatures) float64 {
		return 0.40*stats.Ramp01(f.StanceAsymmetry, 5, 25) +
			0.35*stats.Ramp01(f.StepAsymmetry, 5, 25) +
			0.25*stats.Ramp01(f.WalkingSpeed, 1.1, 0.5)
	}},
	{models.GaitTrendelenburg, func(f GaitFeatures) float64 {
		return 0.60*stats.Ramp01(f.PelvicObliquity, 3, 10) +
			0.40*stats.Ramp01(f.StanceAsymmetry, 5, 20)
	}},
	{models.GaitFestinating, func(f GaitFeatures) float64 {
		return 0.40*stats.Ramp01(f.Cadence, 115, 140) +
			0.35*stats.Ramp01(f.StrideLength, 1.0, 0.4) +
			0.25*stats.Ramp01(f.WalkingSpeed, 1.0, 0.5)
	}},
	{models.GaitCircumduction, func(f GaitFeatures) float64 {
		return 0.40*stats.Ramp01(f.StepWidth, 0.12, 0.25) +
			0.35*stats.Ramp01(f.KneeFlexionROM, 55, 25) +
			0.25*stats.Ramp01(f.PelvicObliquity, 3, 8)
	}},
	{models.GaitAtaxic, func(f GaitFeatures) float64 {
		return 0.40*stats.Ramp01(f.StrideTimeCV, 4, 12) +
			0.35*stats.Ramp01(f.StepWidthSD, 1.5, 5) +
			0.25*stats.Ramp01(f.StepWidth, 0.12, 0.30)
	}},
	{models.GaitWaddling, func(f GaitFeatures) float64 {
		return 0.45*stats.Ramp01(f.PelvicObliquity, 4, 12) +
			0.30*stats.Ramp01(f.StepWidth, 0.15, 0.30) +
			0.25*stats.Ramp01(f.Cadence, 110, 80)
	}},
	{models.GaitStiffKnee, func(f GaitFeatures) float64 {
		return 0.50*stats.Ramp01(f.KneeFlexionROM, 50, 20) +
			0.30*stats.Ramp01(f.FootClearance, 0.030, 0.010) +
			0.20*stats.Ramp01(f.WalkingSpeed, 1.1, 0.6)
	}},
}

// ClassifyGaitPattern scores all categories and picks the maximum. The normal
// score is 1 − max(pathological scores). Ties break deterministically by
// declaration order — normal first, then the pathological categories as
// listed above — so identical inputs always yield the identical label and
// score map.
func ClassifyGaitPattern(f GaitFeatures) GaitClassification {
	scores := make(map[models.GaitPattern]float64, len(gaitRules)+1)

	maxPath := 0.0
	for _, rule := range gaitRules {
		s := stats.Clamp01(rule.score(f))
		scores[rule.pattern] = s
		if s > maxPath {
			maxPath = s
		}
	}
	scores[models.GaitNormal] = 1 - maxPath

	best := models.GaitNormal
	bestScore := scores[models.GaitNormal]
	for _, rule := range gaitRules {
		if scores[rule.pattern] > bestScore {
			best = rule.pattern
			bestScore = scores[rule.pattern]
		}
	}
	return GaitClassification{Pattern: best, Scores: scores}
}
