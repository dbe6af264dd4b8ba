package analysis

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/spatial"
	"github.com/kinemetrics/motion-backend-go/internal/thresholds"
)

// ErrMissingJoints is returned when a frame lacks joints an analyzer requires.
// The orchestrator treats it as "no result this tick" and keeps the previous
// cached value.
var ErrMissingJoints = errors.New("analysis: required joints missing from frame")

// PostureMetrics is the per-frame output of the posture analyzer.
type PostureMetrics struct {
	TrunkLean       float64 `json:"trunk_lean"`   // degrees, forward positive
	LateralLean     float64 `json:"lateral_lean"` // degrees, absolute
	CVA             float64 `json:"cva"`          // degrees, lower is worse
	SVA             float64 `json:"sva"`          // cm
	Kyphosis        float64 `json:"kyphosis"`     // degrees
	Lordosis        float64 `json:"lordosis"`     // degrees
	ShoulderTilt    float64 `json:"shoulder_tilt"`
	PelvicObliquity float64 `json:"pelvic_obliquity"`

	Score      float64            `json:"score"` // 0-100 composite
	Kendall    models.KendallType `json:"kendall"`
	Severities models.SeverityMap `json:"severities"`
}

// PostureAnalyzer derives postural angles and the composite posture score
// from a single joint frame. It is stateless; every call stands alone.
type PostureAnalyzer struct{}

// NewPostureAnalyzer creates a posture analyzer.
func NewPostureAnalyzer() *PostureAnalyzer {
	return &PostureAnalyzer{}
}

// Analyze computes posture metrics for one frame. Frames missing the spine,
// head, shoulder, or hip joints return ErrMissingJoints.
func (a *PostureAnalyzer) Analyze(frame *models.JointFrame) (*PostureMetrics, error) {
	required := []models.JointName{
		models.JointHead, models.JointNeck,
		models.JointSpineShoulder, models.JointSpineMid, models.JointSpineBase,
		models.JointShoulderLeft, models.JointShoulderRight,
		models.JointHipLeft, models.JointHipRight,
	}
	if !frame.HasJoints(required...) {
		return nil, ErrMissingJoints
	}

	head := frame.Joints[models.JointHead]
	neck := frame.Joints[models.JointNeck]
	spineShoulder := frame.Joints[models.JointSpineShoulder]
	spineMid := frame.Joints[models.JointSpineMid]
	spineBase := frame.Joints[models.JointSpineBase]
	shoulderL := frame.Joints[models.JointShoulderLeft]
	shoulderR := frame.Joints[models.JointShoulderRight]
	hipL := frame.Joints[models.JointHipLeft]
	hipR := frame.Joints[models.JointHipRight]

	m := &PostureMetrics{
		TrunkLean:       spatial.SagittalInclination(spineBase, spineShoulder),
		LateralLean:     math.Abs(spatial.FrontalInclination(spineBase, spineShoulder)),
		CVA:             spatial.ElevationAngle(neck, head),
		SVA:             spatial.SagittalOffset(spineBase, head) * 100,
		Kyphosis:        segmentBend(spineShoulder, spineMid, spineBase) + thoracicBaseline,
		Lordosis:        segmentBend(spineMid, spineBase, hipL.Add(hipR).Mul(0.5)) + lumbarBaseline,
		ShoulderTilt:    spatial.LineTilt(shoulderL, shoulderR),
		PelvicObliquity: spatial.LineTilt(hipL, hipR),
	}

	m.Score = PostureScore(PostureScoreInputs{
		CVA:             m.CVA,
		SVA:             m.SVA,
		Kyphosis:        m.Kyphosis,
		Lordosis:        m.Lordosis,
		TrunkLean:       m.TrunkLean,
		ShoulderTilt:    m.ShoulderTilt,
		PelvicObliquity: m.PelvicObliquity,
	})
	m.Kendall = ClassifyKendall(m.CVA, m.SVA, m.Kyphosis, m.Lordosis)
	m.Severities = models.SeverityMap{
		"cva":              thresholds.CVALadder.Classify(m.CVA),
		"sva":              thresholds.SVALadder.Classify(m.SVA),
		"kyphosis":         thresholds.KyphosisLadder.Classify(m.Kyphosis),
		"lordosis":         thresholds.LordosisLadder.Classify(m.Lordosis),
		"trunk_lean":       thresholds.TrunkLeanLadder.Classify(m.TrunkLean),
		"lateral_lean":     thresholds.LateralLeanLadder.Classify(m.LateralLean),
		"shoulder_tilt":    thresholds.ShoulderTiltLadder.Classify(m.ShoulderTilt),
		"pelvic_obliquity": thresholds.PelvicObliquityLadder.Classify(m.PelvicObliquity),
	}
	return m, nil
}

// Spinal curvature from three tracked spine landmarks understates the true
// radiographic curve; the baselines recenter the proxy onto Cobb-angle scale.
const (
	thoracicBaseline = 25.0
	lumbarBaseline   = 35.0
)

// segmentBend returns how far the chain a-b-c deviates from a straight line,
// in degrees.
func segmentBend(a, b, c r3.Vector) float64 {
	return 180 - spatial.JointAngle(a, b, c)
}
