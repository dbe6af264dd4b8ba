package database

import (
	"database/sql"
	"fmt"
)

// The summary table carries only scalars so list queries never touch the
// time series; the three encoded blobs live out-of-line in
// session_timeseries, one row per session.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id TEXT PRIMARY KEY,
		started_at TIMESTAMP NOT NULL,
		duration REAL NOT NULL,
		frame_count INTEGER NOT NULL,
		step_count INTEGER NOT NULL,
		distance REAL NOT NULL DEFAULT 0,
		distance_source TEXT NOT NULL DEFAULT 'none',

		avg_posture_score REAL NOT NULL DEFAULT 0,
		min_posture_score REAL NOT NULL DEFAULT 0,
		avg_trunk_lean REAL NOT NULL DEFAULT 0,
		max_trunk_lean REAL NOT NULL DEFAULT 0,
		avg_cva REAL NOT NULL DEFAULT 0,
		avg_sva REAL NOT NULL DEFAULT 0,
		avg_kyphosis REAL NOT NULL DEFAULT 0,
		avg_lordosis REAL NOT NULL DEFAULT 0,
		avg_sway_velocity REAL NOT NULL DEFAULT 0,
		avg_walking_speed REAL NOT NULL DEFAULT 0,
		avg_cadence REAL NOT NULL DEFAULT 0,
		avg_reba_score REAL NOT NULL DEFAULT 0,
		peak_reba_score REAL NOT NULL DEFAULT 0,

		posture_score REAL NOT NULL DEFAULT 0,
		fall_risk_score REAL NOT NULL DEFAULT 0,
		fall_risk_level TEXT NOT NULL DEFAULT 'low',
		fatigue_index REAL NOT NULL DEFAULT 0,
		is_fatigued INTEGER NOT NULL DEFAULT 0,
		smoothness_sparc REAL NOT NULL DEFAULT 0,
		pain_risk_score REAL NOT NULL DEFAULT 0,
		upper_crossed_score REAL NOT NULL DEFAULT 0,
		lower_crossed_score REAL NOT NULL DEFAULT 0,
		upper_crossed INTEGER NOT NULL DEFAULT 0,
		lower_crossed INTEGER NOT NULL DEFAULT 0,
		frailty_score REAL NOT NULL DEFAULT 0,
		frailty_category TEXT NOT NULL DEFAULT 'robust',
		estimated_mets REAL NOT NULL DEFAULT 0,
		energy_kcal REAL NOT NULL DEFAULT 0,

		gait_pattern TEXT NOT NULL DEFAULT 'normal',
		gait_confidences_json TEXT NOT NULL DEFAULT '{}',
		kendall_type TEXT NOT NULL DEFAULT 'ideal',
		severities_json TEXT NOT NULL DEFAULT '{}',

		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS session_timeseries (
		session_id TEXT PRIMARY KEY REFERENCES sessions(id) ON DELETE CASCADE,
		body_frames_blob BLOB NOT NULL,
		step_events_blob BLOB NOT NULL,
		motion_samples_blob BLOB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_started_at ON sessions(started_at)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_gait_pattern ON sessions(gait_pattern)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_fall_risk_level ON sessions(fall_risk_level)`,
}

func applySchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
