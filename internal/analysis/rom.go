package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/spatial"
	"github.com/kinemetrics/motion-backend-go/internal/thresholds"
)

// ROMMetrics are the instantaneous joint flexion angles in degrees. Flexion
// is measured from the fully extended chain, so a straight limb reads 0.
type ROMMetrics struct {
	KneeFlexionLeft   float64 `json:"knee_flexion_left"`
	KneeFlexionRight  float64 `json:"knee_flexion_right"`
	HipFlexionLeft    float64 `json:"hip_flexion_left"`
	HipFlexionRight   float64 `json:"hip_flexion_right"`
	ElbowFlexionLeft  float64 `json:"elbow_flexion_left"`
	ElbowFlexionRight float64 `json:"elbow_flexion_right"`
}

// ROMAnalyzer measures joint angles per frame and keeps session peaks for the
// normative comparison at finalize time.
type ROMAnalyzer struct {
	peaks map[string]float64
}

// NewROMAnalyzer creates a ROM analyzer with empty peak state.
func NewROMAnalyzer() *ROMAnalyzer {
	return &ROMAnalyzer{peaks: map[string]float64{}}
}

// Analyze computes flexion angles for one frame. The lower body joints are
// required; arm angles are filled only when the arm joints are tracked.
func (a *ROMAnalyzer) Analyze(frame *models.JointFrame) (*ROMMetrics, error) {
	required := []models.JointName{
		models.JointHipLeft, models.JointHipRight,
		models.JointKneeLeft, models.JointKneeRight,
		models.JointAnkleLeft, models.JointAnkleRight,
		models.JointSpineBase,
	}
	if !frame.HasJoints(required...) {
		return nil, ErrMissingJoints
	}

	j := frame.Joints
	m := &ROMMetrics{
		KneeFlexionLeft:  180 - spatial.JointAngle(j[models.JointHipLeft], j[models.JointKneeLeft], j[models.JointAnkleLeft]),
		KneeFlexionRight: 180 - spatial.JointAngle(j[models.JointHipRight], j[models.JointKneeRight], j[models.JointAnkleRight]),
		HipFlexionLeft:   180 - spatial.JointAngle(j[models.JointSpineBase], j[models.JointHipLeft], j[models.JointKneeLeft]),
		HipFlexionRight:  180 - spatial.JointAngle(j[models.JointSpineBase], j[models.JointHipRight], j[models.JointKneeRight]),
	}
	if frame.HasJoints(models.JointShoulderLeft, models.JointElbowLeft, models.JointWristLeft) {
		m.ElbowFlexionLeft = 180 - spatial.JointAngle(j[models.JointShoulderLeft], j[models.JointElbowLeft], j[models.JointWristLeft])
	}
	if frame.HasJoints(models.JointShoulderRight, models.JointElbowRight, models.JointWristRight) {
		m.ElbowFlexionRight = 180 - spatial.JointAngle(j[models.JointShoulderRight], j[models.JointElbowRight], j[models.JointWristRight])
	}

	a.bumpPeak("knee_flexion", m.KneeFlexionLeft, m.KneeFlexionRight)
	a.bumpPeak("hip_flexion", m.HipFlexionLeft, m.HipFlexionRight)
	a.bumpPeak("elbow_flexion", m.ElbowFlexionLeft, m.ElbowFlexionRight)
	return m, nil
}

func (a *ROMAnalyzer) bumpPeak(motion string, left, right float64) {
	v := left
	if right > v {
		v = right
	}
	if v > a.peaks[motion] {
		a.peaks[motion] = v
	}
}

// PeakSeverities grades the session peak of each motion against the
// subject's normative range.
func (a *ROMAnalyzer) PeakSeverities(subject models.SubjectProfile) models.SeverityMap {
	out := models.SeverityMap{}
	for motion, peak := range a.peaks {
		expected := thresholds.NormativeROM(motion, subject)
		out["rom_"+motion] = thresholds.ROMSeverity(peak, expected)
	}
	return out
}

// Peaks returns a copy of the session peak angles per motion.
func (a *ROMAnalyzer) Peaks() map[string]float64 {
	out := make(map[string]float64, len(a.peaks))
	for k, v := range a.peaks {
		out[k] = v
	}
	return out
}
