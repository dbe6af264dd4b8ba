package analysis

import (
	"math"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/spatial"
	"github.com/kinemetrics/motion-backend-go/internal/thresholds"
)

// ErgonomicMetrics is the REBA assessment of one frame.
type ErgonomicMetrics struct {
	RebaScore  int                `json:"reba_score"` // 1-15
	TrunkScore int                `json:"trunk_score"`
	NeckScore  int                `json:"neck_score"`
	LegScore   int                `json:"leg_score"`
	ArmScore   int                `json:"arm_score"`
	RiskLabel  string             `json:"risk_label"`
	Severities models.SeverityMap `json:"severities"`
}

// ErgonomicAnalyzer scores postural load with the published REBA tables.
// Stateless; it runs on every tenth tick.
type ErgonomicAnalyzer struct{}

// NewErgonomicAnalyzer creates a REBA analyzer.
func NewErgonomicAnalyzer() *ErgonomicAnalyzer {
	return &ErgonomicAnalyzer{}
}

// REBA Table A: trunk × neck × legs → 1-9.
var rebaTableA = [3][5][4]int{
	{ // neck 1
		{1, 2, 3, 4}, {2, 3, 4, 5}, {2, 4, 5, 6}, {3, 5, 6, 7}, {4, 6, 7, 8},
	},
	{ // neck 2
		{1, 2, 3, 4}, {3, 4, 5, 6}, {4, 5, 6, 7}, {5, 6, 7, 8}, {6, 7, 8, 9},
	},
	{ // neck 3
		{3, 3, 5, 6}, {4, 5, 6, 7}, {5, 6, 7, 8}, {6, 7, 8, 9}, {7, 8, 9, 9},
	},
}

// REBA Table B: upper arm × lower arm × wrist → 1-9.
var rebaTableB = [2][6][3]int{
	{ // lower arm 1
		{1, 2, 2}, {1, 2, 3}, {3, 4, 5}, {4, 5, 5}, {6, 7, 8}, {7, 8, 8},
	},
	{ // lower arm 2
		{1, 2, 3}, {2, 3, 4}, {4, 5, 5}, {5, 6, 7}, {7, 8, 8}, {8, 9, 9},
	},
}

// REBA Table C: score A × score B → 1-12.
var rebaTableC = [12][12]int{
	{1, 1, 1, 2, 3, 3, 4, 5, 6, 7, 7, 7},
	{1, 2, 2, 3, 4, 4, 5, 6, 6, 7, 7, 8},
	{2, 3, 3, 3, 4, 5, 6, 7, 7, 8, 8, 8},
	{3, 4, 4, 4, 5, 6, 7, 8, 8, 9, 9, 9},
	{4, 4, 4, 5, 6, 7, 8, 8, 9, 9, 9, 9},
	{6, 6, 6, 7, 8, 8, 9, 9, 10, 10, 10, 10},
	{7, 7, 7, 8, 9, 9, 9, 10, 10, 11, 11, 11},
	{8, 8, 8, 9, 10, 10, 10, 10, 10, 11, 11, 11},
	{9, 9, 9, 10, 10, 10, 11, 11, 11, 12, 12, 12},
	{10, 10, 10, 11, 11, 11, 11, 12, 12, 12, 12, 12},
	{11, 11, 11, 11, 12, 12, 12, 12, 12, 12, 12, 12},
	{12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12, 12},
}

// Analyze scores one frame. Requires the trunk chain plus at least one full
// arm and both knees; load and coupling are assumed light (score 0), and the
// activity adjustment is +1 since the subject is in motion.
func (a *ErgonomicAnalyzer) Analyze(frame *models.JointFrame) (*ErgonomicMetrics, error) {
	required := []models.JointName{
		models.JointHead, models.JointNeck,
		models.JointSpineShoulder, models.JointSpineBase,
		models.JointHipLeft, models.JointHipRight,
		models.JointKneeLeft, models.JointKneeRight,
		models.JointAnkleLeft, models.JointAnkleRight,
	}
	if !frame.HasJoints(required...) {
		return nil, ErrMissingJoints
	}
	j := frame.Joints

	trunkAngle := math.Abs(spatial.SagittalInclination(j[models.JointSpineBase], j[models.JointSpineShoulder]))
	lateral := math.Abs(spatial.FrontalInclination(j[models.JointSpineBase], j[models.JointSpineShoulder]))
	trunk := trunkScore(trunkAngle, lateral)

	neckAngle := math.Abs(spatial.SagittalInclination(j[models.JointNeck], j[models.JointHead]))
	neck := neckScore(neckAngle)

	kneeL := 180 - spatial.JointAngle(j[models.JointHipLeft], j[models.JointKneeLeft], j[models.JointAnkleLeft])
	kneeR := 180 - spatial.JointAngle(j[models.JointHipRight], j[models.JointKneeRight], j[models.JointAnkleRight])
	legs := legScore(math.Max(kneeL, kneeR))

	upper, lower, wrist := armScores(frame)

	scoreA := rebaTableA[neck-1][trunk-1][legs-1]
	scoreB := rebaTableB[lower-1][upper-1][wrist-1]
	if scoreA > 12 {
		scoreA = 12
	}
	if scoreB > 12 {
		scoreB = 12
	}
	reba := rebaTableC[scoreA-1][scoreB-1] + 1 // +1 activity: dynamic task

	m := &ErgonomicMetrics{
		RebaScore:  reba,
		TrunkScore: trunk,
		NeckScore:  neck,
		LegScore:   legs,
		ArmScore:   scoreB,
		RiskLabel:  rebaRiskLabel(reba),
		Severities: models.SeverityMap{
			"reba_score": thresholds.RebaLadder.Classify(float64(reba)),
		},
	}
	return m, nil
}

func trunkScore(angle, lateral float64) int {
	s := 1
	switch {
	case angle > 60:
		s = 4
	case angle > 20:
		s = 3
	case angle > 5:
		s = 2
	}
	if lateral > 5 {
		s++
	}
	if s > 5 {
		s = 5
	}
	return s
}

func neckScore(angle float64) int {
	if angle > 20 {
		return 2
	}
	return 1
}

func legScore(kneeFlexion float64) int {
	s := 1
	switch {
	case kneeFlexion > 60:
		s = 3
	case kneeFlexion > 30:
		s = 2
	}
	if s > 4 {
		s = 4
	}
	return s
}

// armScores grades whichever arm is fully tracked, defaulting to neutral
// when neither is. Wrist posture is not observable from the tracked joints,
// so the wrist stays at 1.
func armScores(frame *models.JointFrame) (upper, lower, wrist int) {
	upper, lower, wrist = 1, 1, 1
	sides := [][3]models.JointName{
		{models.JointShoulderLeft, models.JointElbowLeft, models.JointWristLeft},
		{models.JointShoulderRight, models.JointElbowRight, models.JointWristRight},
	}
	for _, s := range sides {
		if !frame.HasJoints(s[0], s[1], s[2]) {
			continue
		}
		j := frame.Joints
		// Angle between the trunk-down direction and the upper arm: a hanging
		// arm reads near 0, overhead near 180.
		elevation := spatial.JointAngle(j[models.JointSpineBase], j[s[0]], j[s[1]])
		u := 1
		switch {
		case elevation > 90:
			u = 4
		case elevation > 45:
			u = 3
		case elevation > 20:
			u = 2
		}
		elbow := 180 - spatial.JointAngle(j[s[0]], j[s[1]], j[s[2]])
		l := 2
		if elbow >= 60 && elbow <= 100 {
			l = 1
		}
		if u > upper {
			upper, lower = u, l
		}
	}
	if upper > 6 {
		upper = 6
	}
	return upper, lower, wrist
}

func rebaRiskLabel(score int) string {
	switch {
	case score <= 1:
		return "negligible"
	case score <= 3:
		return "low"
	case score <= 7:
		return "medium"
	case score <= 10:
		return "high"
	default:
		return "very_high"
	}
}
