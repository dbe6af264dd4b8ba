// Package thresholds holds the static lookup tables that turn measured values
// into severity levels. Cut points follow published clinical references
// (CVA forward-head posture bands, sagittal balance norms, Cobb-angle bands,
// gait-lab reference data); they are code constants, not configuration.
package thresholds

import "github.com/kinemetrics/motion-backend-go/internal/models"

// Ladder classifies a measurement into a severity by three ordered cut points.
// With HigherIsWorse, a value at or past Severe classifies severe, past
// Moderate classifies moderate, past Mild classifies mild; otherwise the
// comparisons run the other way (lower is worse).
type Ladder struct {
	Mild          float64
	Moderate      float64
	Severe        float64
	HigherIsWorse bool
}

// Classify maps a measured value onto the ladder.
func (l Ladder) Classify(v float64) models.Severity {
	if l.HigherIsWorse {
		switch {
		case v >= l.Severe:
			return models.SeveritySevere
		case v >= l.Moderate:
			return models.SeverityModerate
		case v >= l.Mild:
			return models.SeverityMild
		}
		return models.SeverityNormal
	}
	switch {
	case v <= l.Severe:
		return models.SeveritySevere
	case v <= l.Moderate:
		return models.SeverityModerate
	case v <= l.Mild:
		return models.SeverityMild
	}
	return models.SeverityNormal
}

// Posture ladders.
var (
	// CVA in degrees; below ~50° indicates forward-head posture.
	CVALadder = Ladder{Mild: 50, Moderate: 45, Severe: 40, HigherIsWorse: false}
	// SVA in cm of forward head offset.
	SVALadder = Ladder{Mild: 4, Moderate: 6, Severe: 9, HigherIsWorse: true}
	// Thoracic kyphosis angle in degrees (normal 20-40).
	KyphosisLadder = Ladder{Mild: 45, Moderate: 55, Severe: 65, HigherIsWorse: true}
	// Lumbar lordosis angle in degrees (normal 40-60).
	LordosisLadder = Ladder{Mild: 62, Moderate: 70, Severe: 80, HigherIsWorse: true}
	// Trunk forward lean in degrees from vertical.
	TrunkLeanLadder = Ladder{Mild: 5, Moderate: 10, Severe: 20, HigherIsWorse: true}
	// Lateral trunk lean in degrees.
	LateralLeanLadder = Ladder{Mild: 3, Moderate: 6, Severe: 10, HigherIsWorse: true}
	// Shoulder line tilt in degrees.
	ShoulderTiltLadder = Ladder{Mild: 2, Moderate: 4, Severe: 7, HigherIsWorse: true}
	// Pelvic obliquity in degrees.
	PelvicObliquityLadder = Ladder{Mild: 2, Moderate: 4, Severe: 7, HigherIsWorse: true}
)

// Balance and gait ladders.
var (
	// Postural sway velocity in mm/s.
	SwayVelocityLadder = Ladder{Mild: 15, Moderate: 25, Severe: 35, HigherIsWorse: true}
	// Walking speed in m/s; below 1.0 is clinically slow, below 0.6 frail.
	WalkingSpeedLadder = Ladder{Mild: 1.0, Moderate: 0.8, Severe: 0.6, HigherIsWorse: false}
	// Stride-time coefficient of variation in percent.
	StrideCVLadder = Ladder{Mild: 3, Moderate: 6, Severe: 9, HigherIsWorse: true}
	// Double-support fraction of the gait cycle in percent.
	DoubleSupportLadder = Ladder{Mild: 25, Moderate: 30, Severe: 38, HigherIsWorse: true}
	// Robinson step symmetry index in percent.
	StepAsymmetryLadder = Ladder{Mild: 5, Moderate: 10, Severe: 15, HigherIsWorse: true}
	// REBA score, 1-15.
	RebaLadder = Ladder{Mild: 4, Moderate: 8, Severe: 11, HigherIsWorse: true}
)
