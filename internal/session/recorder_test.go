package session

import (
	"errors"
	"testing"
	"time"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

func recordingRecorder(t *testing.T) *Recorder {
	t.Helper()
	r := NewRecorder()
	if err := r.StartCalibration(); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRecording(); err != nil {
		t.Fatal(err)
	}
	return r
}

func TestRecorderLifecycle(t *testing.T) {
	r := NewRecorder()
	if r.State() != StateIdle {
		t.Fatalf("new recorder state = %v, want idle", r.State())
	}

	steps := []struct {
		name string
		call func() error
		want State
	}{
		{"calibrate", r.StartCalibration, StateCalibrating},
		{"record", r.StartRecording, StateRecording},
		{"pause", r.Pause, StatePaused},
		{"resume", r.Resume, StateRecording},
		{"stop", r.Stop, StateFinished},
		{"reset", r.Reset, StateIdle},
	}
	for _, s := range steps {
		if err := s.call(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if r.State() != s.want {
			t.Fatalf("%s: state = %v, want %v", s.name, r.State(), s.want)
		}
	}
}

func TestRecorderInvalidTransitions(t *testing.T) {
	r := NewRecorder()
	invalid := []struct {
		name string
		call func() error
	}{
		{"record from idle", r.StartRecording},
		{"pause from idle", r.Pause},
		{"resume from idle", r.Resume},
		{"stop from idle", r.Stop},
		{"reset from idle", r.Reset},
		{"cancel from idle", r.Cancel},
	}
	for _, c := range invalid {
		if err := c.call(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("%s: err = %v, want ErrInvalidTransition", c.name, err)
		}
	}
}

func TestRecorderStopFromPaused(t *testing.T) {
	r := recordingRecorder(t)
	if err := r.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := r.Stop(); err != nil {
		t.Fatalf("stop from paused: %v", err)
	}
	if r.State() != StateFinished {
		t.Errorf("state = %v, want finished", r.State())
	}
}

func TestRecorderCancelDiscardsEverything(t *testing.T) {
	r := recordingRecorder(t)
	r.AppendFrame(models.BodyFrame{FrameIndex: 1})
	r.AppendStep(models.StepEvent{})
	r.AppendMotion(models.MotionSample{})

	if err := r.Cancel(); err != nil {
		t.Fatal(err)
	}
	if r.State() != StateIdle {
		t.Errorf("state = %v, want idle", r.State())
	}
	ts := r.Snapshot()
	if len(ts.BodyFrames) != 0 || len(ts.StepEvents) != 0 || len(ts.MotionSamples) != 0 {
		t.Error("cancel must discard all buffered data")
	}
}

func TestRecorderAppendsIgnoredOutsideRecording(t *testing.T) {
	r := NewRecorder()
	r.AppendFrame(models.BodyFrame{})
	if r.FrameCount() != 0 {
		t.Error("append while idle should be a no-op")
	}

	r = recordingRecorder(t)
	if err := r.Pause(); err != nil {
		t.Fatal(err)
	}
	r.AppendFrame(models.BodyFrame{})
	if r.FrameCount() != 0 {
		t.Error("append while paused should be a no-op")
	}
}

func TestRecorderDecimationPreservesSpan(t *testing.T) {
	r := recordingRecorder(t)
	for i := 0; i <= FrameCapacity; i++ {
		r.AppendFrame(models.BodyFrame{FrameIndex: int64(i), Timestamp: float64(i)})
	}

	ts := r.Snapshot()
	n := len(ts.BodyFrames)
	// one decimation pass: half the oldest half dropped, plus the overflow frame
	want := FrameCapacity/4 + FrameCapacity/2 + 1
	if n != want {
		t.Errorf("frame count after decimation = %d, want %d", n, want)
	}
	if ts.BodyFrames[0].FrameIndex != 0 {
		t.Errorf("oldest frame lost: first index = %d", ts.BodyFrames[0].FrameIndex)
	}
	if ts.BodyFrames[n-1].FrameIndex != FrameCapacity {
		t.Errorf("newest frame lost: last index = %d", ts.BodyFrames[n-1].FrameIndex)
	}
	for i := 1; i < n; i++ {
		if ts.BodyFrames[i].Timestamp <= ts.BodyFrames[i-1].Timestamp {
			t.Fatalf("timestamps not monotonic at %d", i)
		}
	}
}

func TestRecorderElapsedExcludesPauses(t *testing.T) {
	r := NewRecorder()
	current := time.Unix(1000, 0)
	r.now = func() time.Time { return current }

	if err := r.StartCalibration(); err != nil {
		t.Fatal(err)
	}
	if err := r.StartRecording(); err != nil {
		t.Fatal(err)
	}

	current = current.Add(2 * time.Second)
	if err := r.Pause(); err != nil {
		t.Fatal(err)
	}
	current = current.Add(30 * time.Second)
	if got := r.ElapsedTime(); got != 2*time.Second {
		t.Errorf("elapsed while paused = %v, want 2s", got)
	}

	if err := r.Resume(); err != nil {
		t.Fatal(err)
	}
	current = current.Add(1 * time.Second)
	if got := r.ElapsedTime(); got != 3*time.Second {
		t.Errorf("elapsed after resume = %v, want 3s", got)
	}

	if err := r.Stop(); err != nil {
		t.Fatal(err)
	}
	if got := r.ElapsedTime(); got != 3*time.Second {
		t.Errorf("elapsed after stop = %v, want 3s", got)
	}
}
