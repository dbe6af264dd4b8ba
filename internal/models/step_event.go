package models

import "github.com/golang/geo/r3"

// FootSide identifies which foot produced a step event.
type FootSide string

const (
	FootLeft  FootSide = "left"
	FootRight FootSide = "right"
)

// StepEvent is one detected foot strike. It is created by the gait analyzer
// when a tracked foot joint passes through a local minimum of vertical
// displacement, and is immutable once created. Steps whose IMU confidence
// falls below 0.2 are still recorded but flagged LowConfidence.
type StepEvent struct {
	Timestamp      float64   `json:"timestamp"`
	Foot           FootSide  `json:"foot"`
	Position       r3.Vector `json:"position"`
	StrideLength   *float64  `json:"stride_length,omitempty"` // meters, same-foot strike to strike
	StepLength     *float64  `json:"step_length,omitempty"`   // meters, opposite-foot strike to strike
	StepWidth      *float64  `json:"step_width,omitempty"`    // meters, lateral ankle separation
	ImpactVelocity *float64  `json:"impact_velocity,omitempty"` // m/s downward at strike
	FootClearance  *float64  `json:"foot_clearance,omitempty"`  // meters, swing-phase peak height
	Confidence     float64   `json:"confidence"`
	LowConfidence  bool      `json:"low_confidence"`
}
