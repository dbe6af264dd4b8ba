package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/stats"
)

// GaitFeatures are the fourteen session-level gait measurements feeding the
// pattern classifier, fall-risk factors, and frailty screen. Lengths are
// meters, times seconds, rates per minute, variabilities in percent unless
// noted.
type GaitFeatures struct {
	WalkingSpeed          float64 `json:"walking_speed"`           // m/s
	Cadence               float64 `json:"cadence"`                 // steps/min
	StrideLength          float64 `json:"stride_length"`           // m
	StrideTimeCV          float64 `json:"stride_time_cv"`          // %
	StepWidth             float64 `json:"step_width"`              // m
	StepWidthSD           float64 `json:"step_width_sd"`           // cm
	DoubleSupportPct      float64 `json:"double_support_pct"`      // %
	StepAsymmetry         float64 `json:"step_asymmetry"`          // Robinson %
	StanceAsymmetry       float64 `json:"stance_asymmetry"`        // Robinson %
	FootClearance         float64 `json:"foot_clearance"`          // m, mean swing peak
	PelvicObliquity       float64 `json:"pelvic_obliquity"`        // degrees, mean
	ArmSwingAsymmetry     float64 `json:"arm_swing_asymmetry"`     // Robinson %
	KneeFlexionROM        float64 `json:"knee_flexion_rom"`        // degrees
	StepHeightVariability float64 `json:"step_height_variability"` // m, SD of clearance
}

// RobinsonIndex is |L−R| / (0.5×(L+R)) × 100, the left/right symmetry metric.
// Zero when both sides are zero.
func RobinsonIndex(left, right float64) float64 {
	denom := 0.5 * (left + right)
	if denom == 0 {
		return 0
	}
	d := left - right
	if d < 0 {
		d = -d
	}
	return d / denom * 100
}

// BuildGaitFeatures folds the recorded step events, body frames, and analyzer
// accumulators into the session feature set.
func BuildGaitFeatures(steps []models.StepEvent, frames []models.BodyFrame, session GaitSessionStats) GaitFeatures {
	var f GaitFeatures

	var strides, widths, clearances []float64
	for _, s := range steps {
		if s.StrideLength != nil {
			strides = append(strides, *s.StrideLength)
		}
		if s.StepWidth != nil {
			widths = append(widths, *s.StepWidth)
		}
		if s.FootClearance != nil {
			clearances = append(clearances, *s.FootClearance)
		}
	}
	f.StrideLength = stats.Mean(strides)
	f.StepWidth = stats.Mean(widths)
	f.StepWidthSD = stats.StdDev(widths) * 100
	f.FootClearance = stats.Mean(clearances)
	f.StepHeightVariability = stats.StdDev(clearances)

	var speeds, cadences, obliquities, kneeL, kneeR []float64
	for _, bf := range frames {
		if bf.WalkingSpeed > 0 {
			speeds = append(speeds, bf.WalkingSpeed)
		}
		if bf.Cadence > 0 {
			cadences = append(cadences, bf.Cadence)
		}
		obliquities = append(obliquities, bf.PelvicObliquity)
		kneeL = append(kneeL, bf.KneeFlexionLeft)
		kneeR = append(kneeR, bf.KneeFlexionRight)
	}
	f.WalkingSpeed = stats.Mean(speeds)
	f.Cadence = stats.Mean(cadences)
	f.PelvicObliquity = stats.Mean(obliquities)
	if len(kneeL) > 0 {
		romL := stats.Max(kneeL) - stats.Min(kneeL)
		romR := stats.Max(kneeR) - stats.Min(kneeR)
		f.KneeFlexionROM = (romL + romR) / 2
	}

	f.DoubleSupportPct = session.DoubleSupportPct

	intervalsL := strikeIntervals(session.StrikeTimes[models.FootLeft])
	intervalsR := strikeIntervals(session.StrikeTimes[models.FootRight])
	all := append(append([]float64{}, intervalsL...), intervalsR...)
	f.StrideTimeCV = stats.CoefficientOfVariation(all)
	f.StepAsymmetry = RobinsonIndex(stats.Mean(intervalsL), stats.Mean(intervalsR))
	f.StanceAsymmetry = RobinsonIndex(
		float64(session.StanceTicks[models.FootLeft]),
		float64(session.StanceTicks[models.FootRight]),
	)
	f.ArmSwingAsymmetry = RobinsonIndex(
		session.ArmSwingTravel[models.FootLeft],
		session.ArmSwingTravel[models.FootRight],
	)
	return f
}

func strikeIntervals(times []float64) []float64 {
	if len(times) < 2 {
		return nil
	}
	out := make([]float64, 0, len(times)-1)
	for i := 1; i < len(times); i++ {
		out = append(out, times[i]-times[i-1])
	}
	return out
}
