package models

// MotionSample is one inertial reading from the device motion service,
// produced at a fixed rate independent of the body tracker.
type MotionSample struct {
	Timestamp float64 `json:"timestamp"`
	AccelX    float64 `json:"accel_x"` // m/s²
	AccelY    float64 `json:"accel_y"`
	AccelZ    float64 `json:"accel_z"`
	GyroX     float64 `json:"gyro_x"` // rad/s
	GyroY     float64 `json:"gyro_y"`
	GyroZ     float64 `json:"gyro_z"`
}

// PedometerSnapshot is a cumulative reading from the step-counting service.
// It is the highest-priority distance source when present.
type PedometerSnapshot struct {
	Timestamp       float64  `json:"timestamp"`
	Distance        *float64 `json:"distance,omitempty"` // meters, cumulative
	StepCount       int      `json:"step_count"`
	Cadence         *float64 `json:"cadence,omitempty"` // steps/min
	FloorsAscended  *int     `json:"floors_ascended,omitempty"`
	FloorsDescended *int     `json:"floors_descended,omitempty"`
}
