package session

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/analysis"
	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/stats"
	"github.com/kinemetrics/motion-backend-go/internal/thresholds"
)

// Nominal body-tracker rate, used as the sample rate of frame-derived series.
const sensorRateHz = 60.0

// ErrNothingRecorded is returned when stop is called on a session that never
// produced a frame.
var ErrNothingRecorded = errors.New("session: no frames recorded")

// Finalizer reduces a finished capture into its SessionRecord. Session-level
// analyzers with inference counterparts run through the dual-path dispatcher.
type Finalizer struct {
	provider         analysis.ModelProvider
	inferenceEnabled bool
	logger           *zap.Logger
}

// NewFinalizer creates a finalizer. A nil provider disables inference.
func NewFinalizer(provider analysis.ModelProvider, inferenceEnabled bool, logger *zap.Logger) *Finalizer {
	if provider == nil {
		provider = analysis.NoModelProvider()
		inferenceEnabled = false
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Finalizer{provider: provider, inferenceEnabled: inferenceEnabled, logger: logger}
}

// Finalize runs the session-level analyzer pass exactly once over the
// recorder buffers and assembles the record. The recorder must be in the
// finished state.
func (f *Finalizer) Finalize(rec *Recorder, o *Orchestrator, subject models.SubjectProfile) (*models.SessionRecord, *models.SessionTimeseries, error) {
	if rec.State() != StateFinished {
		return nil, nil, ErrInvalidTransition
	}
	ts := rec.Snapshot()
	if len(ts.BodyFrames) == 0 {
		return nil, nil, ErrNothingRecorded
	}
	state := o.finalizeSnapshot()

	record := &models.SessionRecord{
		ID:         uuid.NewString(),
		StartedAt:  rec.StartedAt(),
		Duration:   rec.ElapsedTime().Seconds(),
		FrameCount: len(ts.BodyFrames),
		StepCount:  len(ts.StepEvents),
		CreatedAt:  time.Now(),
	}

	f.aggregateFrames(record, ts.BodyFrames)

	features := analysis.BuildGaitFeatures(ts.StepEvents, ts.BodyFrames, state.gaitStats)
	record.Distance, record.DistanceSource = fuseDistance(state.pedometer, state.gaitStats, features, record.Duration)

	classification := analysis.ClassifyGaitPattern(features)
	record.GaitPattern = classification.Pattern
	record.GaitConfidences = classification.Scores

	fallRisk := analysis.NewFallRiskDualPath(f.provider, f.inferenceEnabled, f.logger).
		Run(fallRiskInputs(features, record, state.pedometer))
	record.FallRiskScore = fallRisk.Score
	record.FallRiskLevel = fallRisk.Level

	fatigue := analysis.AnalyzeFatigue(state.fatigue)
	record.FatigueIndex = fatigue.Index
	record.IsFatigued = fatigue.IsFatigued

	var speeds []float64
	for _, bf := range ts.BodyFrames {
		speeds = append(speeds, bf.WalkingSpeed)
	}
	record.SmoothnessSPARC = analysis.AnalyzeSmoothness(speeds, sensorRateHz).SPARC

	hipDeficit := romDeficit(state.romPeaks, "hip_flexion", subject)
	crossed := analysis.AnalyzeCrossedSyndromes(analysis.CrossedInputs{
		CVA:               record.AvgCVA,
		SVA:               record.AvgSVA,
		Kyphosis:          record.AvgKyphosis,
		Lordosis:          record.AvgLordosis,
		TrunkLean:         record.AvgTrunkLean,
		HipFlexionDeficit: hipDeficit,
	})
	record.UpperCrossedScore = crossed.UpperScore
	record.LowerCrossedScore = crossed.LowerScore
	record.UpperCrossed = crossed.Upper
	record.LowerCrossed = crossed.Lower

	painRisk := analysis.AnalyzePainRisk(analysis.PainRiskInputs{
		CVA:             record.AvgCVA,
		SVA:             record.AvgSVA,
		Kyphosis:        record.AvgKyphosis,
		Lordosis:        record.AvgLordosis,
		TrunkLean:       record.AvgTrunkLean,
		ShoulderTilt:    avgField(ts.BodyFrames, func(bf models.BodyFrame) float64 { return bf.ShoulderTilt }),
		LateralLean:     avgField(ts.BodyFrames, func(bf models.BodyFrame) float64 { return bf.LateralLean }),
		PelvicObliquity: features.PelvicObliquity,
		StanceAsymmetry: features.StanceAsymmetry,
		KneeFlexionROM:  features.KneeFlexionROM,
		RebaScore:       record.AvgRebaScore,
	})
	record.PainRiskScore = painRisk.Overall

	frailty := analysis.AnalyzeFrailty(features)
	record.FrailtyScore = frailty.Score
	record.FrailtyCategory = frailty.Category

	cardio := analysis.EstimateCardio(record.AvgWalkingSpeed, record.Duration, subject)
	record.EstimatedMETs = cardio.METs
	record.EnergyKcal = cardio.EnergyKcal

	record.PostureScore = analysis.PostureScore(analysis.PostureScoreInputs{
		CVA:             record.AvgCVA,
		SVA:             record.AvgSVA,
		Kyphosis:        record.AvgKyphosis,
		Lordosis:        record.AvgLordosis,
		TrunkLean:       record.AvgTrunkLean,
		ShoulderTilt:    avgField(ts.BodyFrames, func(bf models.BodyFrame) float64 { return bf.ShoulderTilt }),
		PelvicObliquity: features.PelvicObliquity,
	})
	record.KendallType = analysis.ClassifyKendall(record.AvgCVA, record.AvgSVA, record.AvgKyphosis, record.AvgLordosis)

	record.Severities = f.sessionSeverities(record, features, state, subject)

	f.logger.Info("session finalized",
		zap.String("session_id", record.ID),
		zap.Int("frames", record.FrameCount),
		zap.Int("steps", record.StepCount),
		zap.String("gait_pattern", string(record.GaitPattern)),
		zap.Float64("fall_risk", record.FallRiskScore),
	)
	return record, &ts, nil
}

func (f *Finalizer) aggregateFrames(record *models.SessionRecord, frames []models.BodyFrame) {
	var postures, trunks, cvas, svas, kyphs, lords, sways, speeds, cadences, rebas []float64
	for _, bf := range frames {
		postures = append(postures, bf.PostureScore)
		trunks = append(trunks, bf.TrunkLean)
		cvas = append(cvas, bf.CVA)
		svas = append(svas, bf.SVA)
		kyphs = append(kyphs, bf.Kyphosis)
		lords = append(lords, bf.Lordosis)
		sways = append(sways, bf.SwayVelocity)
		cadences = append(cadences, bf.Cadence)
		rebas = append(rebas, bf.RebaScore)
		if bf.WalkingSpeed > 0 {
			speeds = append(speeds, bf.WalkingSpeed)
		}
	}
	record.AvgPostureScore = stats.Mean(postures)
	record.MinPostureScore = stats.Min(postures)
	record.AvgTrunkLean = stats.Mean(trunks)
	record.MaxTrunkLean = stats.Max(trunks)
	record.AvgCVA = stats.Mean(cvas)
	record.AvgSVA = stats.Mean(svas)
	record.AvgKyphosis = stats.Mean(kyphs)
	record.AvgLordosis = stats.Mean(lords)
	record.AvgSwayVelocity = stats.Mean(sways)
	record.AvgWalkingSpeed = stats.Mean(speeds)
	record.AvgCadence = stats.Mean(cadences)
	record.AvgRebaScore = stats.Mean(rebas)
	record.PeakRebaScore = stats.Max(rebas)
}

// fuseDistance picks the best distance source in priority order: pedometer
// sensor fusion, then body-tracker root displacement, then step count times
// estimated stride length.
func fuseDistance(pedometer []models.PedometerSnapshot, gait analysis.GaitSessionStats, features analysis.GaitFeatures, _ float64) (float64, string) {
	if n := len(pedometer); n > 0 {
		last := pedometer[n-1]
		first := pedometer[0]
		if last.Distance != nil && first.Distance != nil {
			return *last.Distance - *first.Distance, "pedometer"
		}
	}
	if gait.RootDistance > 0 {
		return gait.RootDistance, "root_displacement"
	}
	steps := len(gait.StrikeTimes[models.FootLeft]) + len(gait.StrikeTimes[models.FootRight])
	if steps > 0 && features.StrideLength > 0 {
		return float64(steps) * features.StrideLength / 2, "stride_estimate"
	}
	return 0, "none"
}

// fallRiskInputs maps the session measurements onto the fall-risk factors.
// TUG is only present when the pedometer service reported one; absent
// optionals stay nil all the way to the feature-vector boundary.
func fallRiskInputs(f analysis.GaitFeatures, record *models.SessionRecord, _ []models.PedometerSnapshot) analysis.FallRiskInputs {
	in := analysis.FallRiskInputs{}
	if f.WalkingSpeed > 0 {
		in.WalkingSpeed = ptr(f.WalkingSpeed)
	}
	if f.StrideTimeCV > 0 {
		in.StrideTimeCV = ptr(f.StrideTimeCV)
	}
	if f.DoubleSupportPct > 0 {
		in.DoubleSupportPct = ptr(f.DoubleSupportPct)
	}
	if f.StepWidthSD > 0 {
		in.StepWidthSD = ptr(f.StepWidthSD)
	}
	if record.AvgSwayVelocity > 0 {
		in.SwayVelocity = ptr(record.AvgSwayVelocity)
	}
	if f.StepAsymmetry > 0 {
		in.StepAsymmetry = ptr(f.StepAsymmetry)
	}
	if f.FootClearance > 0 {
		in.FootClearance = ptr(f.FootClearance)
	}
	return in
}

func (f *Finalizer) sessionSeverities(record *models.SessionRecord, features analysis.GaitFeatures, state finalizeState, subject models.SubjectProfile) models.SeverityMap {
	sev := models.SeverityMap{
		"cva":            thresholds.CVALadder.Classify(record.AvgCVA),
		"sva":            thresholds.SVALadder.Classify(record.AvgSVA),
		"kyphosis":       thresholds.KyphosisLadder.Classify(record.AvgKyphosis),
		"lordosis":       thresholds.LordosisLadder.Classify(record.AvgLordosis),
		"trunk_lean":     thresholds.TrunkLeanLadder.Classify(record.AvgTrunkLean),
		"sway_velocity":  thresholds.SwayVelocityLadder.Classify(record.AvgSwayVelocity),
		"reba_score":     thresholds.RebaLadder.Classify(record.AvgRebaScore),
		"stride_time_cv": thresholds.StrideCVLadder.Classify(features.StrideTimeCV),
		"step_asymmetry": thresholds.StepAsymmetryLadder.Classify(features.StepAsymmetry),
	}
	if record.AvgWalkingSpeed > 0 {
		sev["walking_speed"] = thresholds.WalkingSpeedLadder.Classify(record.AvgWalkingSpeed)
	}
	if features.DoubleSupportPct > 0 {
		sev["double_support"] = thresholds.DoubleSupportLadder.Classify(features.DoubleSupportPct)
	}
	for k, v := range state.romSev(subject) {
		sev[k] = v
	}
	return sev
}

func avgField(frames []models.BodyFrame, get func(models.BodyFrame) float64) float64 {
	vals := make([]float64, 0, len(frames))
	for _, bf := range frames {
		vals = append(vals, get(bf))
	}
	return stats.Mean(vals)
}

// romDeficit returns how far the session's peak for a motion fell short of
// the subject's normative band, zero when the motion was never observed.
func romDeficit(peaks map[string]float64, motion string, subject models.SubjectProfile) float64 {
	peak, ok := peaks[motion]
	if !ok {
		return 0
	}
	return thresholds.NormativeROM(motion, subject).Deficit(peak)
}

func ptr(v float64) *float64 { return &v }
