package models

import "time"

// GaitPattern is the categorical gait classification label.
type GaitPattern string

const (
	GaitNormal        GaitPattern = "normal"
	GaitAntalgic      GaitPattern = "antalgic"
	GaitTrendelenburg GaitPattern = "trendelenburg"
	GaitFestinating   GaitPattern = "festinating"
	GaitCircumduction GaitPattern = "circumduction"
	GaitAtaxic        GaitPattern = "ataxic"
	GaitWaddling      GaitPattern = "waddling"
	GaitStiffKnee     GaitPattern = "stiff_knee"
)

// KendallType is the Kendall postural classification label.
type KendallType string

const (
	KendallIdeal            KendallType = "ideal"
	KendallKyphosisLordosis KendallType = "kyphosisLordosis"
	KendallFlatBack         KendallType = "flatBack"
	KendallSwayBack         KendallType = "swayBack"
	KendallForwardHead      KendallType = "forwardHead"
)

// SessionRecord is the one finalized record of a capture session. It is
// created exactly once, at session stop, and never partially persisted. The
// full time series lives out-of-line (see SessionTimeseries) so summary-only
// queries stay cheap.
type SessionRecord struct {
	ID        string    `json:"id" db:"id"`
	StartedAt time.Time `json:"started_at" db:"started_at"`
	Duration  float64   `json:"duration" db:"duration"` // seconds, pauses excluded

	FrameCount     int     `json:"frame_count" db:"frame_count"`
	StepCount      int     `json:"step_count" db:"step_count"`
	Distance       float64 `json:"distance" db:"distance"` // meters
	DistanceSource string  `json:"distance_source" db:"distance_source"`

	// Per-metric averages and peaks
	AvgPostureScore float64 `json:"avg_posture_score" db:"avg_posture_score"`
	MinPostureScore float64 `json:"min_posture_score" db:"min_posture_score"`
	AvgTrunkLean    float64 `json:"avg_trunk_lean" db:"avg_trunk_lean"`
	MaxTrunkLean    float64 `json:"max_trunk_lean" db:"max_trunk_lean"`
	AvgCVA          float64 `json:"avg_cva" db:"avg_cva"`
	AvgSVA          float64 `json:"avg_sva" db:"avg_sva"`
	AvgKyphosis     float64 `json:"avg_kyphosis" db:"avg_kyphosis"`
	AvgLordosis     float64 `json:"avg_lordosis" db:"avg_lordosis"`
	AvgSwayVelocity float64 `json:"avg_sway_velocity" db:"avg_sway_velocity"`
	AvgWalkingSpeed float64 `json:"avg_walking_speed" db:"avg_walking_speed"`
	AvgCadence      float64 `json:"avg_cadence" db:"avg_cadence"`
	AvgRebaScore    float64 `json:"avg_reba_score" db:"avg_reba_score"`
	PeakRebaScore   float64 `json:"peak_reba_score" db:"peak_reba_score"`

	// Composite scores
	PostureScore      float64 `json:"posture_score" db:"posture_score"` // 0-100
	FallRiskScore     float64 `json:"fall_risk_score" db:"fall_risk_score"`
	FallRiskLevel     string  `json:"fall_risk_level" db:"fall_risk_level"`
	FatigueIndex      float64 `json:"fatigue_index" db:"fatigue_index"`
	IsFatigued        bool    `json:"is_fatigued" db:"is_fatigued"`
	SmoothnessSPARC   float64 `json:"smoothness_sparc" db:"smoothness_sparc"`
	PainRiskScore     float64 `json:"pain_risk_score" db:"pain_risk_score"`
	UpperCrossedScore float64 `json:"upper_crossed_score" db:"upper_crossed_score"`
	LowerCrossedScore float64 `json:"lower_crossed_score" db:"lower_crossed_score"`
	UpperCrossed      bool    `json:"upper_crossed" db:"upper_crossed"`
	LowerCrossed      bool    `json:"lower_crossed" db:"lower_crossed"`
	FrailtyScore      float64 `json:"frailty_score" db:"frailty_score"`
	FrailtyCategory   string  `json:"frailty_category" db:"frailty_category"`
	EstimatedMETs     float64 `json:"estimated_mets" db:"estimated_mets"`
	EnergyKcal        float64 `json:"energy_kcal" db:"energy_kcal"`

	// Classification labels
	GaitPattern     GaitPattern            `json:"gait_pattern" db:"gait_pattern"`
	GaitConfidences map[GaitPattern]float64 `json:"gait_confidences" db:"-"`
	KendallType     KendallType            `json:"kendall_type" db:"kendall_type"`

	Severities SeverityMap `json:"severities" db:"-"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// SessionTimeseries is the out-of-line time-series payload of one session,
// stored as three independently encoded blobs.
type SessionTimeseries struct {
	BodyFrames    []BodyFrame    `json:"body_frames"`
	StepEvents    []StepEvent    `json:"step_events"`
	MotionSamples []MotionSample `json:"motion_samples"`
}

// SessionStats aggregates across every stored session.
type SessionStats struct {
	TotalSessions   int64   `json:"total_sessions"`
	TotalDuration   float64 `json:"total_duration"` // seconds
	TotalDistance   float64 `json:"total_distance"` // meters
	AvgPostureScore float64 `json:"avg_posture_score"`
	AvgFallRisk     float64 `json:"avg_fall_risk"`
	AvgWalkingSpeed float64 `json:"avg_walking_speed"`
	AvgFatigueIndex float64 `json:"avg_fatigue_index"`

	GaitPatternCounts map[GaitPattern]int64 `json:"gait_pattern_counts"`
	FallRiskCounts    map[string]int64      `json:"fall_risk_counts"`
}

// SessionFilter holds query parameters for listing stored sessions.
type SessionFilter struct {
	StartTime   int64  `form:"startTime"` // Unix timestamp
	EndTime     int64  `form:"endTime"`
	GaitPattern string `form:"gaitPattern"`
	RiskLevel   string `form:"riskLevel"`
	Page        int    `form:"page"`
	PageSize    int    `form:"pageSize"`
}
