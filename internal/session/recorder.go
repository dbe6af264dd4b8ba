// Package session implements the real-time capture pipeline: the recorder
// state machine with its bounded buffers, the frame orchestrator that fans
// sensor callbacks out to the analyzers, and the finalizer that reduces a
// finished capture into its persisted record.
package session

import (
	"errors"
	"sync"
	"time"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

// State is a recorder lifecycle state.
type State string

const (
	StateIdle        State = "idle"
	StateCalibrating State = "calibrating"
	StateRecording   State = "recording"
	StatePaused      State = "paused"
	StateFinished    State = "finished"
)

// ErrInvalidTransition is returned for lifecycle calls not valid in the
// current state.
var ErrInvalidTransition = errors.New("session: invalid state transition")

// Buffer capacities. 36,000 frames is ten minutes at 60 Hz; motion samples
// arrive at up to 100 Hz so their buffer runs proportionally larger.
const (
	FrameCapacity  = 36000
	MotionCapacity = 60000
)

// Recorder is the session state machine plus the bounded in-memory buffers
// of everything captured while recording. Appends are serialized by a single
// writer; Snapshot gives concurrent readers a consistent copy.
type Recorder struct {
	mu    sync.RWMutex
	state State

	frames  []models.BodyFrame
	steps   []models.StepEvent
	motion  []models.MotionSample
	decims  int
	started time.Time

	pauseStart  time.Time
	pausedTotal time.Duration
	now         func() time.Time
}

// NewRecorder creates an idle recorder.
func NewRecorder() *Recorder {
	return &Recorder{state: StateIdle, now: time.Now}
}

// State returns the current lifecycle state.
func (r *Recorder) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// StartCalibration moves idle → calibrating.
func (r *Recorder) StartCalibration() error {
	return r.transition(StateCalibrating, StateIdle)
}

// StartRecording moves calibrating → recording and starts the session clock.
func (r *Recorder) StartRecording() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateCalibrating {
		return ErrInvalidTransition
	}
	r.state = StateRecording
	r.started = r.now()
	r.pausedTotal = 0
	return nil
}

// Pause moves recording → paused.
func (r *Recorder) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return ErrInvalidTransition
	}
	r.state = StatePaused
	r.pauseStart = r.now()
	return nil
}

// Resume moves paused → recording, accumulating the paused span so elapsed
// time excludes it.
func (r *Recorder) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePaused {
		return ErrInvalidTransition
	}
	r.state = StateRecording
	r.pausedTotal += r.now().Sub(r.pauseStart)
	return nil
}

// Stop moves recording or paused → finished. Buffers stay intact for the
// finalizer.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateRecording:
	case StatePaused:
		r.pausedTotal += r.now().Sub(r.pauseStart)
	default:
		return ErrInvalidTransition
	}
	r.state = StateFinished
	return nil
}

// Cancel discards everything and returns to idle. Valid from calibrating,
// recording, and paused; a cancelled session never produces a record.
func (r *Recorder) Cancel() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.state {
	case StateCalibrating, StateRecording, StatePaused:
	default:
		return ErrInvalidTransition
	}
	r.state = StateIdle
	r.clearLocked()
	return nil
}

// Reset moves finished → idle, dropping the buffers after finalization.
func (r *Recorder) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateFinished {
		return ErrInvalidTransition
	}
	r.state = StateIdle
	r.clearLocked()
	return nil
}

func (r *Recorder) clearLocked() {
	r.frames = nil
	r.steps = nil
	r.motion = nil
	r.decims = 0
	r.pausedTotal = 0
}

func (r *Recorder) transition(to State, from ...State) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range from {
		if r.state == f {
			r.state = to
			return nil
		}
	}
	return ErrInvalidTransition
}

// AppendFrame records one BodyFrame while recording. At capacity the buffer
// decimates: every second frame among the oldest half is kept, preserving
// the temporal span at the cost of resolution.
func (r *Recorder) AppendFrame(f models.BodyFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return
	}
	if len(r.frames) >= FrameCapacity {
		r.frames = decimateFrames(r.frames)
		r.decims++
	}
	r.frames = append(r.frames, f)
}

// AppendStep records a detected step event.
func (r *Recorder) AppendStep(s models.StepEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return
	}
	r.steps = append(r.steps, s)
}

// AppendMotion records a motion sample. The motion buffer decimates the same
// way as the frame buffer.
func (r *Recorder) AppendMotion(s models.MotionSample) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StateRecording {
		return
	}
	if len(r.motion) >= MotionCapacity {
		r.motion = decimateMotion(r.motion)
	}
	r.motion = append(r.motion, s)
}

// decimateFrames halves the density of the oldest half of the buffer.
func decimateFrames(frames []models.BodyFrame) []models.BodyFrame {
	half := len(frames) / 2
	kept := make([]models.BodyFrame, 0, half/2+len(frames)-half)
	for i := 0; i < half; i += 2 {
		kept = append(kept, frames[i])
	}
	return append(kept, frames[half:]...)
}

func decimateMotion(samples []models.MotionSample) []models.MotionSample {
	half := len(samples) / 2
	kept := make([]models.MotionSample, 0, half/2+len(samples)-half)
	for i := 0; i < half; i += 2 {
		kept = append(kept, samples[i])
	}
	return append(kept, samples[half:]...)
}

// ElapsedTime is the recording duration excluding paused spans.
func (r *Recorder) ElapsedTime() time.Duration {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.started.IsZero() {
		return 0
	}
	elapsed := r.now().Sub(r.started) - r.pausedTotal
	if r.state == StatePaused {
		elapsed -= r.now().Sub(r.pauseStart)
	}
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// StartedAt returns when recording began.
func (r *Recorder) StartedAt() time.Time {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.started
}

// FrameCount returns the buffered frame count.
func (r *Recorder) FrameCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.frames)
}

// StepCount returns the buffered step-event count.
func (r *Recorder) StepCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.steps)
}

// Snapshot copies the buffers so readers never observe a partial append.
func (r *Recorder) Snapshot() models.SessionTimeseries {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return models.SessionTimeseries{
		BodyFrames:    append([]models.BodyFrame(nil), r.frames...),
		StepEvents:    append([]models.StepEvent(nil), r.steps...),
		MotionSamples: append([]models.MotionSample(nil), r.motion...),
	}
}
