package analysis

import (
	"testing"

	"github.com/golang/geo/r3"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

// walkFrame builds the minimal frame the gait analyzer needs, with the left
// ankle at the given height and both feet otherwise planted.
func walkFrame(ts, leftAnkleY float64) *models.JointFrame {
	return &models.JointFrame{
		Timestamp: ts,
		Joints: map[models.JointName]r3.Vector{
			models.JointAnkleLeft:  {X: -0.1, Y: leftAnkleY, Z: ts * 0.5},
			models.JointAnkleRight: {X: 0.1, Y: 0.01, Z: ts * 0.5},
			models.JointSpineBase:  {Y: 1.0, Z: ts * 0.5},
			models.JointHipLeft:    {X: -0.1, Y: 0.95, Z: ts * 0.5},
			models.JointHipRight:   {X: 0.1, Y: 0.95, Z: ts * 0.5},
		},
	}
}

func TestGaitAnalyzerDetectsStrikeAtLocalMinimum(t *testing.T) {
	a := NewGaitAnalyzer()

	heights := []float64{0.10, 0.06, 0.01, 0.06, 0.10}
	var step *models.StepEvent
	for i, h := range heights {
		snap, err := a.Analyze(walkFrame(float64(i)*0.1, h), 0.8)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Step != nil {
			step = snap.Step
		}
	}

	if step == nil {
		t.Fatal("no step detected at ankle-height local minimum")
	}
	if step.Foot != models.FootLeft {
		t.Errorf("Foot = %v, want left", step.Foot)
	}
	if step.LowConfidence {
		t.Error("step flagged low-confidence at 0.8 IMU confidence")
	}
	if step.StepWidth == nil || *step.StepWidth <= 0 {
		t.Error("step width should be measured from ankle separation")
	}
}

func TestGaitAnalyzerLowConfidenceStepStillRecorded(t *testing.T) {
	a := NewGaitAnalyzer()

	heights := []float64{0.10, 0.06, 0.01, 0.06, 0.10}
	var step *models.StepEvent
	for i, h := range heights {
		snap, err := a.Analyze(walkFrame(float64(i)*0.1, h), 0.05)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Step != nil {
			step = snap.Step
		}
	}

	if step == nil {
		t.Fatal("low IMU confidence must not suppress the step event")
	}
	if !step.LowConfidence {
		t.Error("step below the confidence floor should be flagged")
	}
	if step.Confidence != 0.05 {
		t.Errorf("Confidence = %v, want 0.05", step.Confidence)
	}
}

func TestGaitAnalyzerRefractoryPeriod(t *testing.T) {
	a := NewGaitAnalyzer()

	// two dips 0.2s apart, inside the per-foot refractory window
	heights := []float64{0.10, 0.01, 0.10, 0.01, 0.10}
	steps := 0
	for i, h := range heights {
		snap, err := a.Analyze(walkFrame(float64(i)*0.1, h), 0.8)
		if err != nil {
			t.Fatal(err)
		}
		if snap.Step != nil {
			steps++
		}
	}
	if steps > 1 {
		t.Errorf("detected %d steps within the refractory period, want at most 1", steps)
	}
}

func TestGaitAnalyzerMissingJoints(t *testing.T) {
	a := NewGaitAnalyzer()
	frame := &models.JointFrame{Timestamp: 0, Joints: map[models.JointName]r3.Vector{
		models.JointAnkleLeft: {},
	}}
	if _, err := a.Analyze(frame, 1); err == nil {
		t.Error("frame without both ankles and spine base should error")
	}
}

func TestGaitAnalyzerDoubleSupport(t *testing.T) {
	a := NewGaitAnalyzer()
	// both ankles grounded on every tick
	for i := 0; i < 10; i++ {
		if _, err := a.Analyze(walkFrame(float64(i)*0.1, 0.01), 0.8); err != nil {
			t.Fatal(err)
		}
	}
	if got := a.DoubleSupportPct(); got != 100 {
		t.Errorf("DoubleSupportPct = %v, want 100 with both feet down throughout", got)
	}
}

func TestRobinsonIndex(t *testing.T) {
	if got := RobinsonIndex(1, 1); got != 0 {
		t.Errorf("symmetric index = %v, want 0", got)
	}
	// |3-2| / 2.5 * 100 = 40
	if got := RobinsonIndex(3, 2); got != 40 {
		t.Errorf("RobinsonIndex(3,2) = %v, want 40", got)
	}
	if got := RobinsonIndex(2, 3); got != 40 {
		t.Errorf("index should be symmetric, got %v", got)
	}
	if got := RobinsonIndex(0, 0); got != 0 {
		t.Errorf("zero sides = %v, want 0", got)
	}
}
