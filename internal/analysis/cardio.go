package analysis

import (
	"github.com/kinemetrics/motion-backend-go/internal/models"
)

// CardioEstimate is the session energy-expenditure estimate derived from the
// walking profile.
type CardioEstimate struct {
	METs       float64 `json:"mets"`
	EnergyKcal float64 `json:"energy_kcal"`
	Intensity  string  `json:"intensity"` // sedentary / light / moderate / vigorous
}

// EstimateCardio applies the ACSM walking equation to the average speed:
// VO₂ = 3.5 + 0.1 × speed(m/min), level grade. Energy uses the standard
// kcal = METs × 3.5 × kg / 200 per minute; a 70 kg default covers missing
// subject weight.
func EstimateCardio(avgSpeed float64, durationSeconds float64, subject models.SubjectProfile) CardioEstimate {
	var e CardioEstimate
	if avgSpeed <= 0 || durationSeconds <= 0 {
		e.Intensity = "sedentary"
		return e
	}

	speedMPerMin := avgSpeed * 60
	vo2 := 3.5 + 0.1*speedMPerMin
	e.METs = vo2 / 3.5

	weight := subject.WeightKG
	if weight <= 0 {
		weight = 70
	}
	minutes := durationSeconds / 60
	e.EnergyKcal = e.METs * 3.5 * weight / 200 * minutes

	switch {
	case e.METs < 1.6:
		e.Intensity = "sedentary"
	case e.METs < 3:
		e.Intensity = "light"
	case e.METs < 6:
		e.Intensity = "moderate"
	default:
		e.Intensity = "vigorous"
	}
	return e
}
