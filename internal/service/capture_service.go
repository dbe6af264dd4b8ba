package service

import (
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/analysis"
	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/repository"
	"github.com/kinemetrics/motion-backend-go/internal/session"
)

var (
	// ErrCaptureActive is returned when a start is attempted while a session
	// is already underway.
	ErrCaptureActive = errors.New("capture already in progress")
	// ErrNoCapture is returned for lifecycle calls with no active session.
	ErrNoCapture = errors.New("no capture in progress")
)

// CaptureService owns the single active capture session: its recorder, its
// orchestrator, and the finalize-and-persist step at stop. Only one session
// exists at a time; starting a new one requires the previous one to have
// finished or been cancelled.
type CaptureService struct {
	mu sync.Mutex

	repo      *repository.SessionRepository
	finalizer *session.Finalizer
	logger    *zap.Logger

	rec     *session.Recorder
	orch    *session.Orchestrator
	subject models.SubjectProfile

	// A finalized record that failed to persist is parked here so the client
	// can retry the stop without losing the session.
	pendingRecord *models.SessionRecord
	pendingTS     *models.SessionTimeseries
}

// NewCaptureService creates the capture service. A nil provider disables
// model inference and every analyzer runs its rule path.
func NewCaptureService(repo *repository.SessionRepository, provider analysis.ModelProvider, inferenceEnabled bool, logger *zap.Logger) *CaptureService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CaptureService{
		repo:      repo,
		finalizer: session.NewFinalizer(provider, inferenceEnabled, logger),
		logger:    logger,
		rec:       session.NewRecorder(),
	}
}

// CaptureStatus is the live view of the active session.
type CaptureStatus struct {
	State                session.State       `json:"state"`
	ElapsedSeconds       float64             `json:"elapsed_seconds"`
	FrameCount           int                 `json:"frame_count"`
	StepCount            int                 `json:"step_count"`
	CalibrationCountdown int                 `json:"calibration_countdown,omitempty"`
	Live                 session.LiveMetrics `json:"live"`
}

// Start begins a new capture for the given subject. The session enters the
// calibration countdown; recording starts automatically when it completes.
func (s *CaptureService) Start(subject models.SubjectProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rec.State() != session.StateIdle {
		return ErrCaptureActive
	}
	if s.pendingRecord != nil {
		return ErrCaptureActive
	}

	s.subject = subject
	s.orch = session.NewOrchestrator(s.rec, s.logger)
	s.orch.OnRecordingStart(func() {
		s.logger.Info("recording started", zap.Int("subject_age", subject.Age))
	})
	s.orch.OnPostureAlert(func(score float64) {
		s.logger.Warn("posture alert", zap.Float64("score", score))
	})

	if err := s.rec.StartCalibration(); err != nil {
		return err
	}
	s.logger.Info("capture started, calibrating")
	return nil
}

// TogglePause pauses a recording session or resumes a paused one, returning
// the resulting state.
func (s *CaptureService) TogglePause() (session.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.rec.State() {
	case session.StateRecording:
		if err := s.rec.Pause(); err != nil {
			return s.rec.State(), err
		}
	case session.StatePaused:
		if err := s.rec.Resume(); err != nil {
			return s.rec.State(), err
		}
	default:
		return s.rec.State(), ErrNoCapture
	}
	return s.rec.State(), nil
}

// Stop ends the session, runs the one-shot finalize pass, and persists the
// record. If persistence fails the finalized record is retained and a
// subsequent Stop retries the write instead of re-finalizing.
func (s *CaptureService) Stop() (*models.SessionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pendingRecord != nil {
		return s.persistPending()
	}

	if err := s.rec.Stop(); err != nil {
		return nil, ErrNoCapture
	}
	record, ts, err := s.finalizer.Finalize(s.rec, s.orch, s.subject)
	if err != nil {
		// Nothing usable was recorded; drop the session entirely.
		s.rec.Reset()
		s.orch = nil
		return nil, err
	}
	s.pendingRecord = record
	s.pendingTS = ts
	return s.persistPending()
}

func (s *CaptureService) persistPending() (*models.SessionRecord, error) {
	if err := s.repo.Insert(s.pendingRecord, s.pendingTS); err != nil {
		s.logger.Error("failed to persist session, retaining for retry",
			zap.String("session_id", s.pendingRecord.ID), zap.Error(err))
		return nil, err
	}
	record := s.pendingRecord
	s.pendingRecord = nil
	s.pendingTS = nil
	s.rec.Reset()
	s.orch = nil
	return record, nil
}

// Cancel discards the active session without producing a record.
func (s *CaptureService) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingRecord != nil {
		// Explicit cancel also drops an unpersisted record.
		s.pendingRecord = nil
		s.pendingTS = nil
		s.rec.Reset()
		s.orch = nil
		return nil
	}
	if err := s.rec.Cancel(); err != nil {
		return ErrNoCapture
	}
	s.orch = nil
	s.logger.Info("capture cancelled")
	return nil
}

// Status returns the live view of the active session.
func (s *CaptureService) Status() CaptureStatus {
	s.mu.Lock()
	orch := s.orch
	s.mu.Unlock()

	st := CaptureStatus{
		State:          s.rec.State(),
		ElapsedSeconds: s.rec.ElapsedTime().Seconds(),
		FrameCount:     s.rec.FrameCount(),
		StepCount:      s.rec.StepCount(),
	}
	if orch != nil {
		st.Live = orch.Live()
		if st.State == session.StateCalibrating {
			st.CalibrationCountdown = orch.CalibrationCountdown()
		}
	}
	return st
}

// IngestJointFrame routes a body-tracker frame into the live pipeline.
func (s *CaptureService) IngestJointFrame(frame *models.JointFrame) {
	s.mu.Lock()
	orch := s.orch
	s.mu.Unlock()
	if orch != nil {
		orch.OnJointFrame(frame)
	}
}

// IngestMotionSample routes an IMU sample into the live pipeline.
func (s *CaptureService) IngestMotionSample(sample models.MotionSample) {
	s.mu.Lock()
	orch := s.orch
	s.mu.Unlock()
	if orch != nil {
		orch.OnMotionSample(sample)
	}
}

// IngestPedometerSnapshot routes a cumulative pedometer reading into the
// live pipeline.
func (s *CaptureService) IngestPedometerSnapshot(p models.PedometerSnapshot) {
	s.mu.Lock()
	orch := s.orch
	s.mu.Unlock()
	if orch != nil {
		orch.OnPedometerSnapshot(p)
	}
}
