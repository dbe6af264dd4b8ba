package analysis

import (
	"math"
	"testing"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

func TestPostureScoreIdealAngles(t *testing.T) {
	score := PostureScore(PostureScoreInputs{
		CVA:      53,
		SVA:      1,
		Kyphosis: 35,
		Lordosis: 50,
	})
	if math.Abs(score-100) > 1e-9 {
		t.Errorf("ideal posture score = %v, want 100", score)
	}
}

func TestPostureScoreSevereKyphoticPattern(t *testing.T) {
	// Pronounced forward head with exaggerated spinal curves. Every angular
	// factor saturates, leaving only the neutral lean and tilt contributions.
	score := PostureScore(PostureScoreInputs{
		CVA:      26,
		SVA:      11,
		Kyphosis: 72,
		Lordosis: 82,
	})
	if math.Abs(score-20) > 1e-9 {
		t.Errorf("degraded posture score = %v, want 20", score)
	}
	if score >= 40 {
		t.Errorf("score %v should fall below the alert threshold", score)
	}
}

func TestPostureScoreMonotonicInCVA(t *testing.T) {
	base := PostureScoreInputs{CVA: 53, SVA: 1, Kyphosis: 35, Lordosis: 50}
	worse := base
	worse.CVA = 40
	if PostureScore(worse) >= PostureScore(base) {
		t.Error("worse CVA should lower the composite score")
	}
}

func TestClassifyKendall(t *testing.T) {
	cases := []struct {
		name                         string
		cva, sva, kyphosis, lordosis float64
		want                         models.KendallType
	}{
		{"ideal", 53, 1, 35, 50, models.KendallIdeal},
		{"kyphosis lordosis", 26, 11, 72, 82, models.KendallKyphosisLordosis},
		{"flat back", 50, 2, 15, 30, models.KendallFlatBack},
		{"sway back", 50, 6, 50, 35, models.KendallSwayBack},
		{"forward head by cva", 40, 2, 30, 45, models.KendallForwardHead},
		{"forward head by sva", 55, 7, 30, 45, models.KendallForwardHead},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ClassifyKendall(c.cva, c.sva, c.kyphosis, c.lordosis); got != c.want {
				t.Errorf("ClassifyKendall = %v, want %v", got, c.want)
			}
		})
	}
}
