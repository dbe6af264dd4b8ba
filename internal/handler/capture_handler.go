package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/service"
	"github.com/kinemetrics/motion-backend-go/internal/session"
	"github.com/kinemetrics/motion-backend-go/pkg/response"
)

// CaptureHandler handles HTTP requests for the live capture lifecycle
type CaptureHandler struct {
	service *service.CaptureService
}

// NewCaptureHandler creates a new capture handler
func NewCaptureHandler(service *service.CaptureService) *CaptureHandler {
	return &CaptureHandler{service: service}
}

// Start handles POST /api/v1/capture/start
func (h *CaptureHandler) Start(c *gin.Context) {
	var subject models.SubjectProfile
	if err := c.ShouldBindJSON(&subject); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid subject profile", err)
		return
	}

	if err := h.service.Start(subject); err != nil {
		if errors.Is(err, service.ErrCaptureActive) {
			response.Error(c, http.StatusConflict, "Capture already in progress", err)
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to start capture", err)
		return
	}

	response.Success(c, gin.H{
		"state":                 session.StateCalibrating,
		"calibration_countdown": h.service.Status().CalibrationCountdown,
	})
}

// TogglePause handles POST /api/v1/capture/pause
func (h *CaptureHandler) TogglePause(c *gin.Context) {
	state, err := h.service.TogglePause()
	if err != nil {
		response.Error(c, http.StatusConflict, "Cannot pause or resume in current state", err)
		return
	}
	response.Success(c, gin.H{"state": state})
}

// Stop handles POST /api/v1/capture/stop
func (h *CaptureHandler) Stop(c *gin.Context) {
	record, err := h.service.Stop()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoCapture):
			response.Error(c, http.StatusConflict, "No capture in progress", err)
		case errors.Is(err, session.ErrNothingRecorded):
			response.Error(c, http.StatusUnprocessableEntity, "Session produced no frames", err)
		default:
			// The finalized record is retained; the client can retry stop.
			response.Error(c, http.StatusInternalServerError, "Failed to persist session", err)
		}
		return
	}
	response.Success(c, record)
}

// Cancel handles POST /api/v1/capture/cancel
func (h *CaptureHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(); err != nil {
		response.Error(c, http.StatusConflict, "No capture in progress", err)
		return
	}
	response.Success(c, gin.H{"state": session.StateIdle})
}

// Live handles GET /api/v1/capture/live
func (h *CaptureHandler) Live(c *gin.Context) {
	response.Success(c, h.service.Status())
}
