package thresholds

import (
	"testing"

	"github.com/kinemetrics/motion-backend-go/internal/models"
)

func TestLadderHigherIsWorse(t *testing.T) {
	l := Ladder{Mild: 4, Moderate: 6, Severe: 9, HigherIsWorse: true}
	cases := []struct {
		v    float64
		want models.Severity
	}{
		{3.9, models.SeverityNormal},
		{4, models.SeverityMild},
		{5.9, models.SeverityMild},
		{6, models.SeverityModerate},
		{9, models.SeveritySevere},
		{20, models.SeveritySevere},
	}
	for _, c := range cases {
		if got := l.Classify(c.v); got != c.want {
			t.Errorf("Classify(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestLadderLowerIsWorse(t *testing.T) {
	cases := []struct {
		v    float64
		want models.Severity
	}{
		{55, models.SeverityNormal},
		{50, models.SeverityMild},
		{45, models.SeverityModerate},
		{40, models.SeveritySevere},
		{30, models.SeveritySevere},
	}
	for _, c := range cases {
		if got := CVALadder.Classify(c.v); got != c.want {
			t.Errorf("CVA Classify(%v) = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestWalkingSpeedLadder(t *testing.T) {
	if got := WalkingSpeedLadder.Classify(1.3); got != models.SeverityNormal {
		t.Errorf("fast walker classified %v", got)
	}
	if got := WalkingSpeedLadder.Classify(0.55); got != models.SeveritySevere {
		t.Errorf("frail speed classified %v, want severe", got)
	}
}

func TestNormativeROMAgeBands(t *testing.T) {
	young := NormativeROM("knee_flexion", models.SubjectProfile{Age: 30})
	if young.Low != 125 || young.High != 145 {
		t.Errorf("young knee band = %+v, want 125-145", young)
	}

	old := NormativeROM("knee_flexion", models.SubjectProfile{Age: 75})
	if old.Low != 110 || old.High != 135 {
		t.Errorf("older knee band = %+v, want 110-135", old)
	}

	// zero age falls back to the middle band
	def := NormativeROM("knee_flexion", models.SubjectProfile{})
	if def.Low != 120 || def.High != 140 {
		t.Errorf("default knee band = %+v, want 120-140", def)
	}
}

func TestNormativeROMFemaleHipAdjustment(t *testing.T) {
	male := NormativeROM("hip_flexion", models.SubjectProfile{Age: 30, Sex: models.SexMale})
	female := NormativeROM("hip_flexion", models.SubjectProfile{Age: 30, Sex: models.SexFemale})
	if female.Low != male.Low+3 || female.High != male.High+5 {
		t.Errorf("female hip band = %+v, male = %+v", female, male)
	}
}

func TestNormativeROMUnknownMotion(t *testing.T) {
	r := NormativeROM("wrist_circumduction", models.SubjectProfile{Age: 30})
	if r.Low != 0 || r.High != 180 {
		t.Errorf("unknown motion band = %+v, want permissive 0-180", r)
	}
}

func TestROMRangeDeficit(t *testing.T) {
	r := ROMRange{Low: 110, High: 130}
	if got := r.Deficit(120); got != 0 {
		t.Errorf("in-band deficit = %v, want 0", got)
	}
	if got := r.Deficit(100); got != 10 {
		t.Errorf("deficit = %v, want 10", got)
	}
	if !r.Contains(115) || r.Contains(131) {
		t.Error("Contains misclassified band membership")
	}
}

func TestROMSeverity(t *testing.T) {
	r := ROMRange{Low: 110, High: 130} // span 20
	cases := []struct {
		measured float64
		want     models.Severity
	}{
		{125, models.SeverityNormal},
		{105, models.SeverityMild},    // deficit 5
		{98, models.SeverityModerate}, // deficit 12 >= span/2
		{85, models.SeveritySevere},   // deficit 25 >= span
	}
	for _, c := range cases {
		if got := ROMSeverity(c.measured, r); got != c.want {
			t.Errorf("ROMSeverity(%v) = %v, want %v", c.measured, got, c.want)
		}
	}
}
