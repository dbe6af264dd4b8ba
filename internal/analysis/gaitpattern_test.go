package analysis

import (
	"reflect"
	"testing"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

func healthyGaitFeatures() GaitFeatures {
	return GaitFeatures{
		WalkingSpeed:     1.3,
		Cadence:          110,
		StrideLength:     1.4,
		StrideTimeCV:     2,
		StepWidth:        0.09,
		StepWidthSD:      1.0,
		DoubleSupportPct: 22,
		StepAsymmetry:    2,
		StanceAsymmetry:  2,
		FootClearance:    0.05,
		PelvicObliquity:  1.5,
		KneeFlexionROM:   60,
	}
}

func TestClassifyGaitPatternHealthy(t *testing.T) {
	c := ClassifyGaitPattern(healthyGaitFeatures())
	if c.Pattern != models.GaitNormal {
		t.Errorf("Pattern = %v, want normal", c.Pattern)
	}
	if c.Scores[models.GaitNormal] != 1 {
		t.Errorf("normal score = %v, want 1 when no pathology fires", c.Scores[models.GaitNormal])
	}
}

func TestClassifyGaitPatternTrendelenburg(t *testing.T) {
	f := healthyGaitFeatures()
	f.PelvicObliquity = 12
	f.StanceAsymmetry = 22

	c := ClassifyGaitPattern(f)
	if c.Pattern != models.GaitTrendelenburg {
		t.Errorf("Pattern = %v, want trendelenburg (scores %v)", c.Pattern, c.Scores)
	}
	if c.Scores[models.GaitTrendelenburg] != 1 {
		t.Errorf("trendelenburg score = %v, want saturated 1", c.Scores[models.GaitTrendelenburg])
	}
}

func TestClassifyGaitPatternStiffKnee(t *testing.T) {
	f := healthyGaitFeatures()
	f.KneeFlexionROM = 18
	f.FootClearance = 0.009
	f.WalkingSpeed = 0.55

	c := ClassifyGaitPattern(f)
	if c.Pattern != models.GaitStiffKnee {
		t.Errorf("Pattern = %v, want stiff_knee (scores %v)", c.Pattern, c.Scores)
	}
}

func TestClassifyGaitPatternScoresComplete(t *testing.T) {
	c := ClassifyGaitPattern(healthyGaitFeatures())
	want := []models.GaitPattern{
		models.GaitNormal, models.GaitAntalgic, models.GaitTrendelenburg,
		models.GaitFestinating, models.GaitCircumduction, models.GaitAtaxic,
		models.GaitWaddling, models.GaitStiffKnee,
	}
	for _, p := range want {
		s, ok := c.Scores[p]
		if !ok {
			t.Errorf("score map missing %v", p)
			continue
		}
		if s < 0 || s > 1 {
			t.Errorf("score for %v = %v, out of [0,1]", p, s)
		}
	}
}

func TestClassifyGaitPatternNormalComplement(t *testing.T) {
	f := healthyGaitFeatures()
	f.StrideTimeCV = 8 // partial ataxic signal
	c := ClassifyGaitPattern(f)

	maxPath := 0.0
	for p, s := range c.Scores {
		if p != models.GaitNormal && s > maxPath {
			maxPath = s
		}
	}
	if got := c.Scores[models.GaitNormal]; got != 1-maxPath {
		t.Errorf("normal score = %v, want 1 - max pathological = %v", got, 1-maxPath)
	}
}

func TestClassifyGaitPatternDeterministic(t *testing.T) {
	f := healthyGaitFeatures()
	f.PelvicObliquity = 9
	a := ClassifyGaitPattern(f)
	b := ClassifyGaitPattern(f)
	if a.Pattern != b.Pattern || !reflect.DeepEqual(a.Scores, b.Scores) {
		t.Error("identical inputs must classify identically")
	}
}
