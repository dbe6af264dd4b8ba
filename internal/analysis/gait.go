package analysis

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/spatial"
)

// Step detection tuning. Heights are meters, times seconds.
const (
	strikeCeiling      = 0.05 // strike must bottom out within this of the session floor
	stanceCeiling      = 0.03 // foot counts as grounded below this clearance
	minStepInterval    = 0.30 // refractory period per foot
	cadenceWindow      = 10.0 // trailing window for live cadence
	maxPlausibleSpeed  = 4.0  // m/s, displacement spikes above this are tracker glitches
	speedSmoothing     = 0.2  // EMA weight for live walking speed
	lowConfidenceFloor = 0.2  // below this the step is flagged, still recorded
)

// GaitSnapshot is the per-tick output of the gait analyzer. Step is non-nil
// only on ticks where a foot strike was detected.
type GaitSnapshot struct {
	PelvicObliquity  float64 `json:"pelvic_obliquity"`
	WalkingSpeed     float64 `json:"walking_speed"`
	Cadence          float64 `json:"cadence"`
	DoubleSupportPct float64 `json:"double_support_pct"`

	Step *models.StepEvent `json:"step,omitempty"`
}

type footState struct {
	prevHeight     float64
	prev2Height    float64
	prevTime       float64
	prev2Time      float64
	prevPos        r3.Vector
	samples        int
	floor          float64
	peakSinceStep  float64
	lastStrikeTime float64
	lastStrikePos  r3.Vector
	hasStrike      bool
	stanceTicks    int
	strikeTimes    []float64
}

// GaitAnalyzer detects foot strikes from local minima of ankle height and
// keeps the light running state behind live speed, cadence, and support
// estimates. One instance serves one session.
type GaitAnalyzer struct {
	feet map[models.FootSide]*footState

	prevRoot    r3.Vector
	prevRootTS  float64
	hasRoot     bool
	speedEMA    float64
	hasSpeed    bool
	rootPath    float64
	strikeTimes []float64 // both feet, trailing, for live cadence

	tickCount   int
	doubleTicks int

	armSwing  map[models.FootSide]float64
	prevWrist map[models.FootSide]r3.Vector
	hasWrist  map[models.FootSide]bool
}

// NewGaitAnalyzer creates a gait analyzer with empty step state.
func NewGaitAnalyzer() *GaitAnalyzer {
	return &GaitAnalyzer{
		feet: map[models.FootSide]*footState{
			models.FootLeft:  {},
			models.FootRight: {},
		},
		armSwing:  map[models.FootSide]float64{},
		prevWrist: map[models.FootSide]r3.Vector{},
		hasWrist:  map[models.FootSide]bool{},
	}
}

// Analyze ingests one frame. imuConfidence is the orchestrator's current
// motion-corroboration estimate in [0,1]; steps below the 0.2 floor are
// recorded with LowConfidence set rather than dropped.
func (a *GaitAnalyzer) Analyze(frame *models.JointFrame, imuConfidence float64) (*GaitSnapshot, error) {
	if !frame.HasJoints(models.JointAnkleLeft, models.JointAnkleRight, models.JointSpineBase) {
		return nil, ErrMissingJoints
	}

	ankles := map[models.FootSide]r3.Vector{
		models.FootLeft:  frame.Joints[models.JointAnkleLeft],
		models.FootRight: frame.Joints[models.JointAnkleRight],
	}

	snap := &GaitSnapshot{}
	a.tickCount++

	a.trackRoot(frame)
	a.trackArmSwing(frame)

	grounded := 0
	for side, pos := range ankles {
		st := a.feet[side]
		if st.samples == 0 || pos.Y < st.floor {
			st.floor = pos.Y
		}
		if pos.Y-st.floor < stanceCeiling {
			st.stanceTicks++
			grounded++
		}
		if step := a.detectStrike(side, st, pos, ankles, frame.Timestamp, imuConfidence); step != nil {
			snap.Step = step
		}
	}
	if grounded == 2 {
		a.doubleTicks++
	}

	if hipL, ok := frame.Joint(models.JointHipLeft); ok {
		if hipR, ok2 := frame.Joint(models.JointHipRight); ok2 {
			snap.PelvicObliquity = spatial.LineTilt(hipL, hipR)
		}
	}
	snap.WalkingSpeed = a.speedEMA
	snap.Cadence = a.liveCadence(frame.Timestamp)
	snap.DoubleSupportPct = a.DoubleSupportPct()
	return snap, nil
}

// detectStrike fires when the previous sample was a local minimum of ankle
// height close to the session floor.
func (a *GaitAnalyzer) detectStrike(side models.FootSide, st *footState, pos r3.Vector, ankles map[models.FootSide]r3.Vector, ts, imuConfidence float64) *models.StepEvent {
	defer func() {
		st.prev2Height, st.prev2Time = st.prevHeight, st.prevTime
		st.prevHeight, st.prevTime = pos.Y, ts
		st.prevPos = pos
		st.samples++
		if pos.Y > st.peakSinceStep {
			st.peakSinceStep = pos.Y
		}
	}()

	if st.samples < 2 {
		return nil
	}
	isLocalMin := st.prevHeight < st.prev2Height && st.prevHeight <= pos.Y
	if !isLocalMin || st.prevHeight-st.floor > strikeCeiling {
		return nil
	}
	if st.hasStrike && st.prevTime-st.lastStrikeTime < minStepInterval {
		return nil
	}

	step := &models.StepEvent{
		Timestamp:     st.prevTime,
		Foot:          side,
		Position:      st.prevPos,
		Confidence:    imuConfidence,
		LowConfidence: imuConfidence < lowConfidenceFloor,
	}

	if dt := st.prevTime - st.prev2Time; dt > 0 {
		impact := (st.prev2Height - st.prevHeight) / dt
		if impact > 0 {
			step.ImpactVelocity = &impact
		}
	}
	if st.hasStrike {
		stride := spatial.HorizontalDistance(st.lastStrikePos, st.prevPos)
		step.StrideLength = &stride
		clearance := st.peakSinceStep - st.floor
		step.FootClearance = &clearance
	}
	if other := a.feet[opposite(side)]; other.hasStrike {
		length := spatial.HorizontalDistance(other.lastStrikePos, st.prevPos)
		step.StepLength = &length
	}
	width := math.Abs(ankles[models.FootLeft].X - ankles[models.FootRight].X)
	step.StepWidth = &width

	st.hasStrike = true
	st.lastStrikeTime = st.prevTime
	st.lastStrikePos = st.prevPos
	st.peakSinceStep = st.prevHeight
	st.strikeTimes = append(st.strikeTimes, st.prevTime)
	a.strikeTimes = append(a.strikeTimes, st.prevTime)
	return step
}

func (a *GaitAnalyzer) trackRoot(frame *models.JointFrame) {
	root := frame.Joints[models.JointSpineBase]
	if a.hasRoot {
		dt := frame.Timestamp - a.prevRootTS
		if dt > 0 {
			d := spatial.HorizontalDistance(a.prevRoot, root)
			v := d / dt
			if v <= maxPlausibleSpeed {
				a.rootPath += d
				if a.hasSpeed {
					a.speedEMA = speedSmoothing*v + (1-speedSmoothing)*a.speedEMA
				} else {
					a.speedEMA = v
					a.hasSpeed = true
				}
			}
		}
	}
	a.prevRoot = root
	a.prevRootTS = frame.Timestamp
	a.hasRoot = true
}

func (a *GaitAnalyzer) trackArmSwing(frame *models.JointFrame) {
	for side, joint := range map[models.FootSide]models.JointName{
		models.FootLeft:  models.JointWristLeft,
		models.FootRight: models.JointWristRight,
	} {
		pos, ok := frame.Joint(joint)
		if !ok {
			continue
		}
		if a.hasWrist[side] {
			a.armSwing[side] += math.Abs(pos.Z - a.prevWrist[side].Z)
		}
		a.prevWrist[side] = pos
		a.hasWrist[side] = true
	}
}

func (a *GaitAnalyzer) liveCadence(now float64) float64 {
	cutoff := now - cadenceWindow
	i := 0
	for i < len(a.strikeTimes) && a.strikeTimes[i] < cutoff {
		i++
	}
	a.strikeTimes = a.strikeTimes[i:]
	if len(a.strikeTimes) < 2 {
		return 0
	}
	span := now - a.strikeTimes[0]
	if span <= 0 {
		return 0
	}
	return float64(len(a.strikeTimes)) / span * 60
}

// DoubleSupportPct returns the running share of ticks with both feet
// grounded, in percent.
func (a *GaitAnalyzer) DoubleSupportPct() float64 {
	if a.tickCount == 0 {
		return 0
	}
	return float64(a.doubleTicks) / float64(a.tickCount) * 100
}

// RootDistance returns the accumulated horizontal root-joint path in meters,
// the second-priority distance source after the pedometer.
func (a *GaitAnalyzer) RootDistance() float64 {
	return a.rootPath
}

// SessionStats exposes the accumulated state the finalizer folds into the
// session-level gait features.
type GaitSessionStats struct {
	StanceTicks      map[models.FootSide]int
	StrikeTimes      map[models.FootSide][]float64
	DoubleSupportPct float64
	ArmSwingTravel   map[models.FootSide]float64
	RootDistance     float64
}

// SessionStats snapshots the per-session accumulators.
func (a *GaitAnalyzer) SessionStats() GaitSessionStats {
	stats := GaitSessionStats{
		StanceTicks:      map[models.FootSide]int{},
		StrikeTimes:      map[models.FootSide][]float64{},
		ArmSwingTravel:   map[models.FootSide]float64{},
		DoubleSupportPct: a.DoubleSupportPct(),
		RootDistance:     a.rootPath,
	}
	for side, st := range a.feet {
		stats.StanceTicks[side] = st.stanceTicks
		stats.StrikeTimes[side] = append([]float64(nil), st.strikeTimes...)
	}
	for side, travel := range a.armSwing {
		stats.ArmSwingTravel[side] = travel
	}
	return stats
}

func opposite(side models.FootSide) models.FootSide {
	if side == models.FootLeft {
		return models.FootRight
	}
	return models.FootLeft
}
