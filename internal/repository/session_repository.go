package repository

import (
	"bytes"
	"compress/gzip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/kinemetrics/motion-backend-go/internal/database"
	"github.com/kinemetrics/motion-backend-go/internal/models"
)

// SessionRepository handles database operations for finalized sessions.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Insert persists a finalized session: the summary row and the three encoded
// time-series blobs, atomically. A failure leaves nothing behind, so the
// caller can retry with the in-memory session intact.
func (r *SessionRepository) Insert(record *models.SessionRecord, ts *models.SessionTimeseries) error {
	framesBlob, err := encodeBlob(ts.BodyFrames)
	if err != nil {
		return fmt.Errorf("failed to encode body frames: %w", err)
	}
	stepsBlob, err := encodeBlob(ts.StepEvents)
	if err != nil {
		return fmt.Errorf("failed to encode step events: %w", err)
	}
	motionBlob, err := encodeBlob(ts.MotionSamples)
	if err != nil {
		return fmt.Errorf("failed to encode motion samples: %w", err)
	}

	confidences, err := json.Marshal(record.GaitConfidences)
	if err != nil {
		return fmt.Errorf("failed to encode gait confidences: %w", err)
	}
	severities, err := json.Marshal(record.Severities)
	if err != nil {
		return fmt.Errorf("failed to encode severities: %w", err)
	}

	return database.Transaction(func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			INSERT INTO sessions (
				id, started_at, duration, frame_count, step_count,
				distance, distance_source,
				avg_posture_score, min_posture_score, avg_trunk_lean, max_trunk_lean,
				avg_cva, avg_sva, avg_kyphosis, avg_lordosis,
				avg_sway_velocity, avg_walking_speed, avg_cadence,
				avg_reba_score, peak_reba_score,
				posture_score, fall_risk_score, fall_risk_level,
				fatigue_index, is_fatigued, smoothness_sparc, pain_risk_score,
				upper_crossed_score, lower_crossed_score, upper_crossed, lower_crossed,
				frailty_score, frailty_category, estimated_mets, energy_kcal,
				gait_pattern, gait_confidences_json, kendall_type, severities_json,
				created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?,
				?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			record.ID, record.StartedAt, record.Duration, record.FrameCount, record.StepCount,
			record.Distance, record.DistanceSource,
			record.AvgPostureScore, record.MinPostureScore, record.AvgTrunkLean, record.MaxTrunkLean,
			record.AvgCVA, record.AvgSVA, record.AvgKyphosis, record.AvgLordosis,
			record.AvgSwayVelocity, record.AvgWalkingSpeed, record.AvgCadence,
			record.AvgRebaScore, record.PeakRebaScore,
			record.PostureScore, record.FallRiskScore, record.FallRiskLevel,
			record.FatigueIndex, record.IsFatigued, record.SmoothnessSPARC, record.PainRiskScore,
			record.UpperCrossedScore, record.LowerCrossedScore, record.UpperCrossed, record.LowerCrossed,
			record.FrailtyScore, record.FrailtyCategory, record.EstimatedMETs, record.EnergyKcal,
			string(record.GaitPattern), string(confidences), string(record.KendallType), string(severities),
			record.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO session_timeseries (session_id, body_frames_blob, step_events_blob, motion_samples_blob)
			VALUES (?, ?, ?, ?)`,
			record.ID, framesBlob, stepsBlob, motionBlob,
		)
		if err != nil {
			return fmt.Errorf("failed to insert session timeseries: %w", err)
		}
		return nil
	})
}

// List retrieves session summaries with filtering and pagination.
func (r *SessionRepository) List(filter models.SessionFilter) ([]models.SessionRecord, int64, error) {
	var conditions []string
	var args []interface{}

	if filter.StartTime > 0 {
		conditions = append(conditions, "started_at >= datetime(?, 'unixepoch')")
		args = append(args, filter.StartTime)
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "started_at <= datetime(?, 'unixepoch')")
		args = append(args, filter.EndTime)
	}
	if filter.GaitPattern != "" {
		conditions = append(conditions, "gait_pattern = ?")
		args = append(args, filter.GaitPattern)
	}
	if filter.RiskLevel != "" {
		conditions = append(conditions, "fall_risk_level = ?")
		args = append(args, filter.RiskLevel)
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := r.db.QueryRow("SELECT COUNT(*) FROM sessions"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	if filter.PageSize > 500 {
		filter.PageSize = 500
	}

	query := selectSummary + where + " ORDER BY started_at DESC LIMIT ? OFFSET ?"
	args = append(args, filter.PageSize, (filter.Page-1)*filter.PageSize)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var records []models.SessionRecord
	for rows.Next() {
		rec, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, *rec)
	}
	return records, total, rows.Err()
}

// GetByID retrieves a single session summary.
func (r *SessionRepository) GetByID(id string) (*models.SessionRecord, error) {
	row := r.db.QueryRow(selectSummary+" WHERE id = ?", id)
	return scanSession(row)
}

// GetTimeseries decodes the three out-of-line blobs of one session.
func (r *SessionRepository) GetTimeseries(id string) (*models.SessionTimeseries, error) {
	var framesBlob, stepsBlob, motionBlob []byte
	err := r.db.QueryRow(`
		SELECT body_frames_blob, step_events_blob, motion_samples_blob
		FROM session_timeseries WHERE session_id = ?`, id).
		Scan(&framesBlob, &stepsBlob, &motionBlob)
	if err != nil {
		return nil, fmt.Errorf("failed to query session timeseries: %w", err)
	}

	var ts models.SessionTimeseries
	if err := decodeBlob(framesBlob, &ts.BodyFrames); err != nil {
		return nil, fmt.Errorf("failed to decode body frames: %w", err)
	}
	if err := decodeBlob(stepsBlob, &ts.StepEvents); err != nil {
		return nil, fmt.Errorf("failed to decode step events: %w", err)
	}
	if err := decodeBlob(motionBlob, &ts.MotionSamples); err != nil {
		return nil, fmt.Errorf("failed to decode motion samples: %w", err)
	}
	return &ts, nil
}

// Stats aggregates summary statistics across all stored sessions.
func (r *SessionRepository) Stats() (*models.SessionStats, error) {
	stats := &models.SessionStats{
		GaitPatternCounts: map[models.GaitPattern]int64{},
		FallRiskCounts:    map[string]int64{},
	}

	err := r.db.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(duration), 0), COALESCE(SUM(distance), 0),
			COALESCE(AVG(avg_posture_score), 0), COALESCE(AVG(fall_risk_score), 0),
			COALESCE(AVG(avg_walking_speed), 0), COALESCE(AVG(fatigue_index), 0)
		FROM sessions`).Scan(
		&stats.TotalSessions,
		&stats.TotalDuration, &stats.TotalDistance,
		&stats.AvgPostureScore, &stats.AvgFallRisk,
		&stats.AvgWalkingSpeed, &stats.AvgFatigueIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate sessions: %w", err)
	}

	rows, err := r.db.Query("SELECT gait_pattern, COUNT(*) FROM sessions GROUP BY gait_pattern")
	if err != nil {
		return nil, fmt.Errorf("failed to count gait patterns: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var pattern string
		var n int64
		if err := rows.Scan(&pattern, &n); err != nil {
			return nil, err
		}
		stats.GaitPatternCounts[models.GaitPattern(pattern)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	levels, err := r.db.Query("SELECT fall_risk_level, COUNT(*) FROM sessions GROUP BY fall_risk_level")
	if err != nil {
		return nil, fmt.Errorf("failed to count fall risk levels: %w", err)
	}
	defer levels.Close()
	for levels.Next() {
		var level string
		var n int64
		if err := levels.Scan(&level, &n); err != nil {
			return nil, err
		}
		stats.FallRiskCounts[level] = n
	}
	return stats, levels.Err()
}

// Delete removes a session and its time series.
func (r *SessionRepository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM sessions WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const selectSummary = `
	SELECT id, started_at, duration, frame_count, step_count,
		distance, distance_source,
		avg_posture_score, min_posture_score, avg_trunk_lean, max_trunk_lean,
		avg_cva, avg_sva, avg_kyphosis, avg_lordosis,
		avg_sway_velocity, avg_walking_speed, avg_cadence,
		avg_reba_score, peak_reba_score,
		posture_score, fall_risk_score, fall_risk_level,
		fatigue_index, is_fatigued, smoothness_sparc, pain_risk_score,
		upper_crossed_score, lower_crossed_score, upper_crossed, lower_crossed,
		frailty_score, frailty_category, estimated_mets, energy_kcal,
		gait_pattern, gait_confidences_json, kendall_type, severities_json,
		created_at
	FROM sessions`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	var gaitPattern, confidencesJSON, kendall, severitiesJSON string

	err := row.Scan(
		&rec.ID, &rec.StartedAt, &rec.Duration, &rec.FrameCount, &rec.StepCount,
		&rec.Distance, &rec.DistanceSource,
		&rec.AvgPostureScore, &rec.MinPostureScore, &rec.AvgTrunkLean, &rec.MaxTrunkLean,
		&rec.AvgCVA, &rec.AvgSVA, &rec.AvgKyphosis, &rec.AvgLordosis,
		&rec.AvgSwayVelocity, &rec.AvgWalkingSpeed, &rec.AvgCadence,
		&rec.AvgRebaScore, &rec.PeakRebaScore,
		&rec.PostureScore, &rec.FallRiskScore, &rec.FallRiskLevel,
		&rec.FatigueIndex, &rec.IsFatigued, &rec.SmoothnessSPARC, &rec.PainRiskScore,
		&rec.UpperCrossedScore, &rec.LowerCrossedScore, &rec.UpperCrossed, &rec.LowerCrossed,
		&rec.FrailtyScore, &rec.FrailtyCategory, &rec.EstimatedMETs, &rec.EnergyKcal,
		&gaitPattern, &confidencesJSON, &kendall, &severitiesJSON,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.GaitPattern = models.GaitPattern(gaitPattern)
	rec.KendallType = models.KendallType(kendall)
	if err := json.Unmarshal([]byte(confidencesJSON), &rec.GaitConfidences); err != nil {
		rec.GaitConfidences = nil
	}
	if err := json.Unmarshal([]byte(severitiesJSON), &rec.Severities); err != nil {
		rec.Severities = nil
	}
	return &rec, nil
}

// encodeBlob is gzip-compressed JSON; each blob decodes independently.
func encodeBlob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if err := json.NewEncoder(gz).Encode(v); err != nil {
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decodeBlob(blob []byte, v interface{}) error {
	gz, err := gzip.NewReader(bytes.NewReader(blob))
	if err != nil {
		return err
	}
	defer gz.Close()
	data, err := io.ReadAll(gz)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
