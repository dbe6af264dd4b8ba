package analysis

import (
	"math"

	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// FatigueInputs are the fixed-interval series the orchestrator samples every
// sixth tick over the whole session. Series are index-aligned.
type FatigueInputs struct {
	PostureScores []float64
	TrunkLeans    []float64
	LateralLeans  []float64
	Cadences      []float64
	Speeds        []float64
}

// FatigueResult is the session fatigue assessment.
type FatigueResult struct {
	Index      float64 `json:"index"` // 0-100
	IsFatigued bool    `json:"is_fatigued"`

	PostureDrop        float64 `json:"posture_drop"`        // first-third mean − last-third mean
	VariabilityChange  float64 `json:"variability_change"`  // last-third SD − first-third SD
	PostureSlope       float64 `json:"posture_slope"`       // per sample
	PostureTrendR2     float64 `json:"posture_trend_r2"`
	ForwardLeanChange  float64 `json:"forward_lean_change"` // degrees over session, fitted
	SpeedChange        float64 `json:"speed_change"`        // m/s over session, fitted
	CadenceChangePct   float64 `json:"cadence_change_pct"`  // between thirds
	LateralSwayChange  float64 `json:"lateral_sway_change"` // degrees over session, fitted
	PostureScoreStdDev float64 `json:"posture_score_stddev"`
}

// Term caps: each degradation signal contributes at most this many index
// points, so the weights mirror its share of the composite.
const (
	fatigueCapPostureDrop = 40.0
	fatigueCapVariability = 20.0
	fatigueCapForwardLean = 15.0
	fatigueCapSpeedLoss   = 10.0
	fatigueCapCadence     = 10.0
	fatigueCapLateralSway = 5.0
)

// AnalyzeFatigue reduces the sampled series to the fatigue index. A term
// contributes only when its sign indicates degradation (posture dropping,
// variability growing, lean increasing, speed falling); improvements count
// as zero rather than offsetting other terms.
func AnalyzeFatigue(in FatigueInputs) FatigueResult {
	var r FatigueResult
	n := len(in.PostureScores)
	if n < 6 {
		return r
	}

	first, last := firstThird(in.PostureScores), lastThird(in.PostureScores)
	r.PostureDrop = stats.Mean(first) - stats.Mean(last)
	r.VariabilityChange = stats.StdDev(last) - stats.StdDev(first)
	r.PostureScoreStdDev = stats.StdDev(in.PostureScores)

	reg := stats.SlopeOverIndex(in.PostureScores)
	r.PostureSlope = reg.Slope
	r.PostureTrendR2 = reg.RSquared

	r.ForwardLeanChange = fittedChange(in.TrunkLeans)
	r.LateralSwayChange = fittedChange(in.LateralLeans)
	r.SpeedChange = fittedChange(in.Speeds)

	cadFirst, cadLast := stats.Mean(firstThird(in.Cadences)), stats.Mean(lastThird(in.Cadences))
	if cadFirst != 0 {
		r.CadenceChangePct = (cadLast - cadFirst) / cadFirst * 100
	}

	// 20-point posture drop, 10-point variability growth, 10° of added lean,
	// 0.5 m/s of lost speed, and 10% cadence shift each saturate their caps.
	index := stats.Clamp(r.PostureDrop*2, 0, fatigueCapPostureDrop)
	index += stats.Clamp(r.VariabilityChange*2, 0, fatigueCapVariability)
	index += stats.Clamp(r.ForwardLeanChange*1.5, 0, fatigueCapForwardLean)
	index += stats.Clamp(-r.SpeedChange*20, 0, fatigueCapSpeedLoss)
	index += stats.Clamp(math.Abs(r.CadenceChangePct), 0, fatigueCapCadence)
	index += stats.Clamp(r.LateralSwayChange*1, 0, fatigueCapLateralSway)

	r.Index = stats.Clamp(index, 0, 100)
	r.IsFatigued = r.Index > 25 || (r.PostureDrop > 5 && r.PostureTrendR2 > 0.3)
	return r
}

// fittedChange projects the OLS fit across the whole series: slope × (n−1),
// i.e. the trend's total movement, robust to endpoint noise.
func fittedChange(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	reg := stats.SlopeOverIndex(series)
	return reg.Slope * float64(len(series)-1)
}

func firstThird(series []float64) []float64 {
	if len(series) < 3 {
		return series
	}
	return series[:len(series)/3]
}

func lastThird(series []float64) []float64 {
	if len(series) < 3 {
		return series
	}
	return series[len(series)-len(series)/3:]
}
