package session

import (
	"math"
	"sync"

	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/analysis"
	"github.com/kinemetrics/motion-backend-go/internal/models"
)

// Analyzer cadence: posture and gait run every tick; the heavier analyzers
// run every Nth tick and their last value is cached in between, so every
// recorded BodyFrame carries a value for every field.
const (
	balanceEvery = 2
	romEvery     = 3
	fatigueEvery = 6
	ergoEvery    = 10

	calibrationSeconds = 3.0

	// Posture alerts fire at most once per ~120 ticks (~2 s at sensor rate).
	alertThreshold  = 40.0
	alertMinSpacing = 120
)

// LiveMetrics holds the last value produced by each analyzer. Throttled
// analyzers update their cell only on their own ticks; reads between runs
// see the cached value, stale by at most N−1 ticks.
type LiveMetrics struct {
	FrameIndex int64                     `json:"frame_index"`
	Posture    *analysis.PostureMetrics  `json:"posture,omitempty"`
	Gait       *analysis.GaitSnapshot    `json:"gait,omitempty"`
	Balance    *analysis.BalanceMetrics  `json:"balance,omitempty"`
	ROM        *analysis.ROMMetrics      `json:"rom,omitempty"`
	Ergonomics *analysis.ErgonomicMetrics `json:"ergonomics,omitempty"`
	Severities models.SeverityMap        `json:"severities"`
}

// Orchestrator drives the per-tick analysis loop. The sensor callback is a
// single producer; everything here runs synchronously on that callback, in
// declaration order, with no internal parallelism.
type Orchestrator struct {
	mu  sync.Mutex
	rec *Recorder

	posture    *analysis.PostureAnalyzer
	gait       *analysis.GaitAnalyzer
	balance    *analysis.BalanceAnalyzer
	rom        *analysis.ROMAnalyzer
	ergonomics *analysis.ErgonomicAnalyzer

	live       LiveMetrics
	frameIndex int64

	calibStart    float64
	hasCalibStart bool
	lastFrameTS   float64

	fatigue analysis.FatigueInputs

	imuConfidence float64
	lastAccelMag  float64
	hasMotion     bool

	pedometer []models.PedometerSnapshot

	// onRecordingStart fires once when calibration completes, so the caller
	// can start the motion and pedometer services.
	onRecordingStart func()
	// onPostureAlert fires (rate-limited) when the live posture score drops
	// below the alert threshold.
	onPostureAlert func(score float64)
	lastAlertIndex int64

	logger *zap.Logger
}

// NewOrchestrator wires the per-frame analyzers over a recorder.
func NewOrchestrator(rec *Recorder, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		rec:            rec,
		posture:        analysis.NewPostureAnalyzer(),
		gait:           analysis.NewGaitAnalyzer(),
		balance:        analysis.NewBalanceAnalyzer(),
		rom:            analysis.NewROMAnalyzer(),
		ergonomics:     analysis.NewErgonomicAnalyzer(),
		lastAlertIndex: -alertMinSpacing,
		logger:         logger,
	}
}

// OnRecordingStart registers the sensor-service start hook.
func (o *Orchestrator) OnRecordingStart(fn func()) { o.onRecordingStart = fn }

// OnPostureAlert registers the low-posture-score alert hook.
func (o *Orchestrator) OnPostureAlert(fn func(score float64)) { o.onPostureAlert = fn }

// OnJointFrame is the body-tracker callback, invoked at sensor rate. While
// calibrating it advances the countdown; while recording it runs the
// analyzer cascade and appends one BodyFrame; in any other state it is a
// no-op.
func (o *Orchestrator) OnJointFrame(frame *models.JointFrame) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.lastFrameTS = frame.Timestamp
	switch o.rec.State() {
	case StateCalibrating:
		o.advanceCalibration(frame.Timestamp)
	case StateRecording:
		o.processFrame(frame)
	}
}

func (o *Orchestrator) advanceCalibration(ts float64) {
	if !o.hasCalibStart {
		o.calibStart = ts
		o.hasCalibStart = true
		return
	}
	if ts-o.calibStart < calibrationSeconds {
		return
	}
	if err := o.rec.StartRecording(); err != nil {
		o.logger.Error("calibration finished but recording did not start", zap.Error(err))
		return
	}
	o.logger.Info("calibration complete, recording")
	if o.onRecordingStart != nil {
		o.onRecordingStart()
	}
}

// CalibrationCountdown returns the whole seconds left in the countdown,
// ceil(3 − elapsed) measured on the sensor clock, or 0 outside calibration.
func (o *Orchestrator) CalibrationCountdown() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec.State() != StateCalibrating || !o.hasCalibStart {
		return int(calibrationSeconds)
	}
	left := calibrationSeconds - (o.lastFrameTS - o.calibStart)
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left))
}

// processFrame runs the analyzer cascade for one recording tick. Analyzers
// that cannot see their joints this tick simply keep their previous cached
// value; nothing here fails the frame.
func (o *Orchestrator) processFrame(frame *models.JointFrame) {
	o.frameIndex++
	idx := o.frameIndex
	o.live.FrameIndex = idx

	if m, err := o.posture.Analyze(frame); err == nil {
		o.live.Posture = m
	}
	if g, err := o.gait.Analyze(frame, o.imuConfidence); err == nil {
		o.live.Gait = g
		if g.Step != nil {
			o.rec.AppendStep(*g.Step)
		}
	}
	if idx%balanceEvery == 0 {
		if b, err := o.balance.Analyze(frame); err == nil {
			o.live.Balance = b
		}
	}
	if idx%romEvery == 0 {
		if r, err := o.rom.Analyze(frame); err == nil {
			o.live.ROM = r
		}
	}
	if idx%ergoEvery == 0 {
		if e, err := o.ergonomics.Analyze(frame); err == nil {
			o.live.Ergonomics = e
		}
	}
	if idx%fatigueEvery == 0 {
		o.sampleFatigue()
	}

	o.refreshSeverities()
	o.rec.AppendFrame(o.buildBodyFrame(frame.Timestamp, idx))
	o.maybeAlert(idx)
}

func (o *Orchestrator) sampleFatigue() {
	if o.live.Posture == nil {
		return
	}
	o.fatigue.PostureScores = append(o.fatigue.PostureScores, o.live.Posture.Score)
	o.fatigue.TrunkLeans = append(o.fatigue.TrunkLeans, o.live.Posture.TrunkLean)
	o.fatigue.LateralLeans = append(o.fatigue.LateralLeans, o.live.Posture.LateralLean)
	if o.live.Gait != nil {
		o.fatigue.Cadences = append(o.fatigue.Cadences, o.live.Gait.Cadence)
		o.fatigue.Speeds = append(o.fatigue.Speeds, o.live.Gait.WalkingSpeed)
	} else {
		o.fatigue.Cadences = append(o.fatigue.Cadences, 0)
		o.fatigue.Speeds = append(o.fatigue.Speeds, 0)
	}
}

func (o *Orchestrator) refreshSeverities() {
	sev := models.SeverityMap{}
	if o.live.Posture != nil {
		for k, v := range o.live.Posture.Severities {
			sev[k] = v
		}
	}
	if o.live.Balance != nil {
		for k, v := range o.live.Balance.Severities {
			sev[k] = v
		}
	}
	if o.live.Ergonomics != nil {
		for k, v := range o.live.Ergonomics.Severities {
			sev[k] = v
		}
	}
	o.live.Severities = sev
}

// buildBodyFrame flattens the live cells into the persisted per-tick record.
func (o *Orchestrator) buildBodyFrame(ts float64, idx int64) models.BodyFrame {
	bf := models.BodyFrame{FrameIndex: idx, Timestamp: ts}
	if p := o.live.Posture; p != nil {
		bf.TrunkLean = p.TrunkLean
		bf.LateralLean = p.LateralLean
		bf.CVA = p.CVA
		bf.SVA = p.SVA
		bf.Kyphosis = p.Kyphosis
		bf.Lordosis = p.Lordosis
		bf.ShoulderTilt = p.ShoulderTilt
		bf.PostureScore = p.Score
	}
	if g := o.live.Gait; g != nil {
		bf.PelvicObliquity = g.PelvicObliquity
		bf.WalkingSpeed = g.WalkingSpeed
		bf.Cadence = g.Cadence
	}
	if b := o.live.Balance; b != nil {
		bf.SwayVelocity = b.SwayVelocity
		bf.SwayPath = b.SwayPath
	}
	if r := o.live.ROM; r != nil {
		bf.KneeFlexionLeft = r.KneeFlexionLeft
		bf.KneeFlexionRight = r.KneeFlexionRight
		bf.HipFlexionLeft = r.HipFlexionLeft
		bf.HipFlexionRight = r.HipFlexionRight
		bf.ElbowFlexionLeft = r.ElbowFlexionLeft
		bf.ElbowFlexionRight = r.ElbowFlexionRight
	}
	if e := o.live.Ergonomics; e != nil {
		bf.RebaScore = float64(e.RebaScore)
	}
	return bf
}

func (o *Orchestrator) maybeAlert(idx int64) {
	if o.onPostureAlert == nil || o.live.Posture == nil {
		return
	}
	if o.live.Posture.Score >= alertThreshold {
		return
	}
	if idx-o.lastAlertIndex < alertMinSpacing {
		return
	}
	o.lastAlertIndex = idx
	o.onPostureAlert(o.live.Posture.Score)
}

// OnMotionSample is the motion-service callback. It feeds the recorder and
// updates the IMU step-corroboration confidence from the acceleration
// envelope.
func (o *Orchestrator) OnMotionSample(s models.MotionSample) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec.State() != StateRecording {
		return
	}
	o.rec.AppendMotion(s)

	mag := math.Sqrt(s.AccelX*s.AccelX + s.AccelY*s.AccelY + s.AccelZ*s.AccelZ)
	if o.hasMotion {
		// Walking produces a rhythmic acceleration envelope; a flat or wild
		// signal lowers confidence in step detection.
		delta := math.Abs(mag - o.lastAccelMag)
		switch {
		case delta > 0.2 && delta < 8:
			o.imuConfidence = math.Min(1, o.imuConfidence+0.1)
		default:
			o.imuConfidence = math.Max(0, o.imuConfidence-0.05)
		}
	}
	o.lastAccelMag = mag
	o.hasMotion = true
}

// OnPedometerSnapshot records a cumulative pedometer reading.
func (o *Orchestrator) OnPedometerSnapshot(p models.PedometerSnapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rec.State() != StateRecording {
		return
	}
	o.pedometer = append(o.pedometer, p)
}

// Live returns a copy of the live metric cells, safe to read while the
// sensor callback keeps appending. Throttled values may be stale by up to
// N−1 ticks.
func (o *Orchestrator) Live() LiveMetrics {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.live
}

// FrameIndex returns the monotonic recording frame counter.
func (o *Orchestrator) FrameIndex() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frameIndex
}

// finalizeState bundles everything the finalizer pulls out of the live loop.
type finalizeState struct {
	fatigue   analysis.FatigueInputs
	gaitStats analysis.GaitSessionStats
	romPeaks  map[string]float64
	romSev    func(models.SubjectProfile) models.SeverityMap
	pedometer []models.PedometerSnapshot
	live      LiveMetrics
}

func (o *Orchestrator) finalizeSnapshot() finalizeState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return finalizeState{
		fatigue:   o.fatigue,
		gaitStats: o.gait.SessionStats(),
		romPeaks:  o.rom.Peaks(),
		romSev:    o.rom.PeakSeverities,
		pedometer: append([]models.PedometerSnapshot(nil), o.pedometer...),
		live:      o.live,
	}
}
