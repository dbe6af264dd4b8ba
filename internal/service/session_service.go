package service

import (
	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/repository"
)

// SessionService handles business logic for stored sessions
type SessionService struct {
	repo *repository.SessionRepository
}

// NewSessionService creates a new session service
func NewSessionService(repo *repository.SessionRepository) *SessionService {
	return &SessionService{repo: repo}
}

// GetSessions retrieves session summaries with filtering and pagination
func (s *SessionService) GetSessions(filter models.SessionFilter) ([]models.SessionRecord, int64, error) {
	return s.repo.List(filter)
}

// GetSessionByID retrieves a single session summary by ID
func (s *SessionService) GetSessionByID(id string) (*models.SessionRecord, error) {
	return s.repo.GetByID(id)
}

// GetTimeseries retrieves the full time series of a stored session
func (s *SessionService) GetTimeseries(id string) (*models.SessionTimeseries, error) {
	return s.repo.GetTimeseries(id)
}

// GetStats aggregates summary statistics across all stored sessions
func (s *SessionService) GetStats() (*models.SessionStats, error) {
	return s.repo.Stats()
}

// DeleteSession removes a session and its time series
func (s *SessionService) DeleteSession(id string) error {
	return s.repo.Delete(id)
}
