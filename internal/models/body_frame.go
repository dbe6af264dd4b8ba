package models

// BodyFrame is one recorded instant of the session: every per-frame metric at
// that timestamp. Throttled analyzers contribute their last cached value, so
// each field is a real measurement or the most recent one — a field is zero
// only while its analyzer has never produced a value.
type BodyFrame struct {
	FrameIndex int64   `json:"frame_index"`
	Timestamp  float64 `json:"timestamp"`

	// Posture (every tick)
	TrunkLean    float64 `json:"trunk_lean"`    // degrees, forward positive
	LateralLean  float64 `json:"lateral_lean"`  // degrees, absolute
	CVA          float64 `json:"cva"`           // degrees, lower is worse
	SVA          float64 `json:"sva"`           // cm, forward offset
	Kyphosis     float64 `json:"kyphosis"`      // degrees
	Lordosis     float64 `json:"lordosis"`      // degrees
	ShoulderTilt float64 `json:"shoulder_tilt"` // degrees
	PostureScore float64 `json:"posture_score"` // 0-100

	// Gait (every tick)
	PelvicObliquity float64 `json:"pelvic_obliquity"` // degrees
	WalkingSpeed    float64 `json:"walking_speed"`    // m/s
	Cadence         float64 `json:"cadence"`          // steps/min

	// Balance (every 2nd tick, cached between runs)
	SwayVelocity float64 `json:"sway_velocity"` // mm/s
	SwayPath     float64 `json:"sway_path"`     // mm, cumulative window path

	// Range of motion (every 3rd tick, cached)
	KneeFlexionLeft   float64 `json:"knee_flexion_left"`  // degrees
	KneeFlexionRight  float64 `json:"knee_flexion_right"` // degrees
	HipFlexionLeft    float64 `json:"hip_flexion_left"`
	HipFlexionRight   float64 `json:"hip_flexion_right"`
	ElbowFlexionLeft  float64 `json:"elbow_flexion_left"`
	ElbowFlexionRight float64 `json:"elbow_flexion_right"`

	// Ergonomic load (every 10th tick, cached)
	RebaScore float64 `json:"reba_score"` // 1-15
}
