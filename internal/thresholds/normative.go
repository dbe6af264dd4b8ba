package thresholds

import "github.com/kinemetrics/motion-backend-go/internal/models"

// ROMRange is an expected joint range-of-motion band in degrees.
type ROMRange struct {
	Low  float64
	High float64
}

// Contains reports whether a measured peak angle falls inside the band.
func (r ROMRange) Contains(v float64) bool {
	return v >= r.Low && v <= r.High
}

// Deficit returns how far below the expected band a measured angle falls,
// zero when within or above it.
func (r ROMRange) Deficit(v float64) float64 {
	if v >= r.Low {
		return 0
	}
	return r.Low - v
}

type ageBand struct {
	maxAge int
	ranges map[string]ROMRange
}

// Age/sex-stratified active ROM norms (AAOS reference data, degrees). Older
// bands carry reduced expectations; female hips run slightly more mobile.
var romBands = []ageBand{
	{maxAge: 39, ranges: map[string]ROMRange{
		"knee_flexion":  {125, 145},
		"hip_flexion":   {110, 125},
		"elbow_flexion": {135, 150},
	}},
	{maxAge: 59, ranges: map[string]ROMRange{
		"knee_flexion":  {120, 140},
		"hip_flexion":   {105, 120},
		"elbow_flexion": {130, 150},
	}},
	{maxAge: 120, ranges: map[string]ROMRange{
		"knee_flexion":  {110, 135},
		"hip_flexion":   {95, 115},
		"elbow_flexion": {125, 145},
	}},
}

// NormativeROM returns the expected active range for a joint motion given the
// subject's age and sex. Unknown motions return a permissive full range.
func NormativeROM(motion string, subject models.SubjectProfile) ROMRange {
	age := subject.Age
	if age <= 0 {
		age = 40 // population-wide default band
	}
	for _, band := range romBands {
		if age <= band.maxAge {
			r, ok := band.ranges[motion]
			if !ok {
				return ROMRange{0, 180}
			}
			if subject.Sex == models.SexFemale && motion == "hip_flexion" {
				r.Low += 3
				r.High += 5
			}
			return r
		}
	}
	return ROMRange{0, 180}
}

// ROMSeverity grades a measured peak angle against the normative band:
// within band is normal, deficits grade by how much of the band is lost.
func ROMSeverity(measured float64, expected ROMRange) models.Severity {
	deficit := expected.Deficit(measured)
	if deficit == 0 {
		return models.SeverityNormal
	}
	span := expected.High - expected.Low
	if span <= 0 {
		return models.SeverityNormal
	}
	switch {
	case deficit >= span:
		return models.SeveritySevere
	case deficit >= span/2:
		return models.SeverityModerate
	default:
		return models.SeverityMild
	}
}
