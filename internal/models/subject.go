package models

// Sex is the biological sex used for normative-range stratification.
type Sex string

const (
	SexFemale Sex = "female"
	SexMale   Sex = "male"
)

// SubjectProfile carries the demographic inputs used by normative lookups and
// the energy-expenditure estimate. Zero values fall back to population-wide
// ranges.
type SubjectProfile struct {
	Age      int     `json:"age"`
	Sex      Sex     `json:"sex"`
	HeightCM float64 `json:"height_cm"`
	WeightKG float64 `json:"weight_kg"`
}
