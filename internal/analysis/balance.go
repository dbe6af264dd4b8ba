package analysis

import (
	"github.com/golang/geo/r3"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/spatial"
	"github.com/kinemetrics/motion-backend-go/internal/thresholds"
)

const swaySmoothing = 0.3

// BalanceMetrics is the output of the balance analyzer: postural sway of the
// trunk center in the horizontal plane.
type BalanceMetrics struct {
	SwayVelocity float64 `json:"sway_velocity"` // mm/s, smoothed
	SwayPath     float64 `json:"sway_path"`     // mm, cumulative

	Severities models.SeverityMap `json:"severities"`
}

// BalanceAnalyzer tracks trunk-center drift between the frames it is given.
// It runs on every second tick, so consecutive calls are ~33ms apart at
// sensor rate.
type BalanceAnalyzer struct {
	prev    r3.Vector
	prevTS  float64
	hasPrev bool
	ema     float64
	path    float64
}

// NewBalanceAnalyzer creates a balance analyzer with no history.
func NewBalanceAnalyzer() *BalanceAnalyzer {
	return &BalanceAnalyzer{}
}

// Analyze updates sway from one frame. The first frame only seeds history.
func (a *BalanceAnalyzer) Analyze(frame *models.JointFrame) (*BalanceMetrics, error) {
	center, ok := frame.Joint(models.JointSpineMid)
	if !ok {
		return nil, ErrMissingJoints
	}

	if a.hasPrev {
		dt := frame.Timestamp - a.prevTS
		if dt > 0 {
			d := spatial.HorizontalDistance(a.prev, center) * 1000 // mm
			a.path += d
			a.ema = swaySmoothing*(d/dt) + (1-swaySmoothing)*a.ema
		}
	}
	a.prev = center
	a.prevTS = frame.Timestamp
	a.hasPrev = true

	return &BalanceMetrics{
		SwayVelocity: a.ema,
		SwayPath:     a.path,
		Severities: models.SeverityMap{
			"sway_velocity": thresholds.SwayVelocityLadder.Classify(a.ema),
		},
	}, nil
}
