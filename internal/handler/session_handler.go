package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/service"
	"github.com/kinemetrics/motion-backend-go/pkg/response"
)

// SessionHandler handles HTTP requests for stored sessions
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(service *service.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// GetSessions handles GET /api/v1/sessions
func (h *SessionHandler) GetSessions(c *gin.Context) {
	var filter models.SessionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err)
		return
	}

	sessions, total, err := h.service.GetSessions(filter)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to get sessions", err)
		return
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 50
	}
	totalPages := int(total) / filter.PageSize
	if int(total)%filter.PageSize > 0 {
		totalPages++
	}

	response.Success(c, gin.H{
		"data":       sessions,
		"total":      total,
		"page":       filter.Page,
		"pageSize":   filter.PageSize,
		"totalPages": totalPages,
	})
}

// GetSessionByID handles GET /api/v1/sessions/:id
func (h *SessionHandler) GetSessionByID(c *gin.Context) {
	record, err := h.service.GetSessionByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, http.StatusNotFound, "Session not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get session", err)
		return
	}
	response.Success(c, record)
}

// GetTimeseries handles GET /api/v1/sessions/:id/timeseries
func (h *SessionHandler) GetTimeseries(c *gin.Context) {
	ts, err := h.service.GetTimeseries(c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, http.StatusNotFound, "Session not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to get session timeseries", err)
		return
	}
	response.Success(c, ts)
}

// GetStats handles GET /api/v1/sessions/stats
func (h *SessionHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to aggregate sessions", err)
		return
	}
	response.Success(c, stats)
}

// DeleteSession handles DELETE /api/v1/sessions/:id
func (h *SessionHandler) DeleteSession(c *gin.Context) {
	if err := h.service.DeleteSession(c.Param("id")); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, http.StatusNotFound, "Session not found", nil)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to delete session", err)
		return
	}
	response.Success(c, gin.H{"deleted": c.Param("id")})
}
