package models

// Severity is the ordered four-level classification attached to a measured
// value. It is always derived from a threshold ladder, never stored on its own.
type Severity int

const (
	SeverityNormal Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

// String returns the lowercase label used in API responses and stored records.
func (s Severity) String() string {
	switch s {
	case SeverityNormal:
		return "normal"
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	default:
		return "normal"
	}
}

// MarshalJSON encodes the severity as its string label.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a stored string label. Unknown labels read as normal.
func (s *Severity) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"mild"`:
		*s = SeverityMild
	case `"moderate"`:
		*s = SeverityModerate
	case `"severe"`:
		*s = SeveritySevere
	default:
		*s = SeverityNormal
	}
	return nil
}

// WorseSeverity returns the worse of two severities. A skeletal segment
// bounded by two joints takes the worse of its endpoint severities.
func WorseSeverity(a, b Severity) Severity {
	if b > a {
		return b
	}
	return a
}

// SeverityMap maps metric names to their classified severity for one frame
// or one finalized session.
type SeverityMap map[string]Severity

// Worst returns the highest severity in the map, SeverityNormal when empty.
func (m SeverityMap) Worst() Severity {
	worst := SeverityNormal
	for _, s := range m {
		if s > worst {
			worst = s
		}
	}
	return worst
}
