package session

import (
	"testing"

	"github.com/golang/geo/r3"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

// skeleton builds a full 19-joint frame for an upright subject. head and
// spineMid are injectable so tests can degrade the posture without touching
// the rest of the body.
func skeleton(ts float64, head, spineMid r3.Vector) *models.JointFrame {
	return &models.JointFrame{
		Timestamp: ts,
		Joints: map[models.JointName]r3.Vector{
			models.JointSpineBase:     {Y: 1.0},
			models.JointSpineMid:      spineMid,
			models.JointSpineShoulder: {Y: 1.45},
			models.JointNeck:          {Y: 1.5},
			models.JointHead:          head,
			models.JointShoulderLeft:  {X: -0.18, Y: 1.45},
			models.JointShoulderRight: {X: 0.18, Y: 1.45},
			models.JointElbowLeft:     {X: -0.20, Y: 1.20},
			models.JointElbowRight:    {X: 0.20, Y: 1.20},
			models.JointWristLeft:     {X: -0.20, Y: 0.95},
			models.JointWristRight:    {X: 0.20, Y: 0.95},
			models.JointHipLeft:       {X: -0.10, Y: 0.95},
			models.JointHipRight:      {X: 0.10, Y: 0.95},
			models.JointKneeLeft:      {X: -0.10, Y: 0.52},
			models.JointKneeRight:     {X: 0.10, Y: 0.52},
			models.JointAnkleLeft:     {X: -0.10, Y: 0.08},
			models.JointAnkleRight:    {X: 0.10, Y: 0.08},
			models.JointFootLeft:      {X: -0.10, Y: 0.02, Z: 0.10},
			models.JointFootRight:     {X: 0.10, Y: 0.02, Z: 0.10},
		},
	}
}

// standingFrame scores ~73, comfortably above the alert threshold.
func standingFrame(ts float64) *models.JointFrame {
	return skeleton(ts, r3.Vector{Y: 1.553, Z: 0.04}, r3.Vector{Y: 1.225})
}

// slouchedFrame drives the head forward and rounds the spine, scoring ~28.
func slouchedFrame(ts float64) *models.JointFrame {
	return skeleton(ts, r3.Vector{Y: 1.52, Z: 0.25}, r3.Vector{Y: 1.2, Z: -0.1})
}

func TestOrchestratorCalibrationCompletes(t *testing.T) {
	rec := NewRecorder()
	if err := rec.StartCalibration(); err != nil {
		t.Fatal(err)
	}
	o := NewOrchestrator(rec, nil)
	started := 0
	o.OnRecordingStart(func() { started++ })

	// the first frame only anchors the countdown on the sensor clock
	o.OnJointFrame(standingFrame(0))
	o.OnJointFrame(standingFrame(1.0))
	if rec.State() != StateCalibrating {
		t.Fatalf("state = %v, want calibrating mid-countdown", rec.State())
	}

	o.OnJointFrame(standingFrame(2.9))
	if rec.State() != StateCalibrating {
		t.Fatal("countdown finished 0.1s early")
	}
	if got := o.CalibrationCountdown(); got != 1 {
		t.Errorf("CalibrationCountdown = %d, want 1 with 0.1s left", got)
	}

	o.OnJointFrame(standingFrame(3.0))
	if rec.State() != StateRecording {
		t.Fatalf("state = %v, want recording after 3s of frames", rec.State())
	}
	if started != 1 {
		t.Errorf("recording-start hook fired %d times, want 1", started)
	}
}

func TestOrchestratorIdleFramesIgnored(t *testing.T) {
	o := NewOrchestrator(NewRecorder(), nil)
	o.OnJointFrame(standingFrame(0))
	if o.FrameIndex() != 0 {
		t.Error("frame processed while recorder is idle")
	}
}

func TestOrchestratorThrottleCadence(t *testing.T) {
	rec := recordingRecorder(t)
	o := NewOrchestrator(rec, nil)

	tick := func(i int) { o.OnJointFrame(standingFrame(float64(i) / 60)) }

	tick(1)
	live := o.Live()
	if live.Posture == nil || live.Gait == nil {
		t.Fatal("posture and gait must run on every tick")
	}
	if live.Balance != nil || live.ROM != nil || live.Ergonomics != nil {
		t.Fatal("throttled analyzers ran on the first tick")
	}

	tick(2)
	if o.Live().Balance == nil {
		t.Error("balance missing after its second-tick slot")
	}
	tick(3)
	if o.Live().ROM == nil {
		t.Error("ROM missing after its third-tick slot")
	}

	for i := 4; i <= 9; i++ {
		tick(i)
	}
	if o.Live().Ergonomics != nil {
		t.Fatal("ergonomics ran before its tenth-tick slot")
	}
	tick(10)
	if o.Live().Ergonomics == nil {
		t.Fatal("ergonomics missing after its tenth-tick slot")
	}
	tick(11)

	if got := rec.FrameCount(); got != 11 {
		t.Fatalf("FrameCount = %d, want 11", got)
	}
	frames := rec.Snapshot().BodyFrames
	if frames[9].RebaScore <= 0 {
		t.Fatal("frame 10 should carry the freshly computed REBA score")
	}
	// tick 11 is off-cadence for ergonomics; the cached value is persisted
	if frames[10].RebaScore != frames[9].RebaScore {
		t.Errorf("cached REBA score changed between runs: %v vs %v", frames[10].RebaScore, frames[9].RebaScore)
	}
	if frames[3].RebaScore != 0 {
		t.Error("REBA score present before the analyzer ever ran")
	}
}

func TestOrchestratorAlertRateLimiting(t *testing.T) {
	rec := recordingRecorder(t)
	o := NewOrchestrator(rec, nil)

	var alerts []float64
	o.OnPostureAlert(func(score float64) { alerts = append(alerts, score) })

	for i := 1; i <= 250; i++ {
		o.OnJointFrame(slouchedFrame(float64(i) / 60))
	}

	// first eligible tick, then every 120th while the score stays low
	if len(alerts) != 3 {
		t.Fatalf("got %d alerts over 250 low-score frames, want 3", len(alerts))
	}
	for i, score := range alerts {
		if score >= alertThreshold {
			t.Errorf("alert %d carried score %v, at or above the threshold", i, score)
		}
	}
}

func TestOrchestratorNoAlertsWhileUpright(t *testing.T) {
	rec := recordingRecorder(t)
	o := NewOrchestrator(rec, nil)

	alerts := 0
	o.OnPostureAlert(func(float64) { alerts++ })
	for i := 1; i <= 250; i++ {
		o.OnJointFrame(standingFrame(float64(i) / 60))
	}
	if alerts != 0 {
		t.Errorf("%d alerts fired for a healthy posture", alerts)
	}
}

func TestOrchestratorMotionSampleGating(t *testing.T) {
	rec := NewRecorder()
	o := NewOrchestrator(rec, nil)

	o.OnMotionSample(models.MotionSample{Timestamp: 0, AccelY: 9.8})
	if len(rec.Snapshot().MotionSamples) != 0 {
		t.Error("motion sample buffered while idle")
	}

	if err := rec.StartCalibration(); err != nil {
		t.Fatal(err)
	}
	if err := rec.StartRecording(); err != nil {
		t.Fatal(err)
	}
	o.OnMotionSample(models.MotionSample{Timestamp: 1, AccelY: 9.8})
	if len(rec.Snapshot().MotionSamples) != 1 {
		t.Error("motion sample dropped while recording")
	}
}
