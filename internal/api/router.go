package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/config"
	"github.com/kinemetrics/motion-backend-go/internal/handler"
	"github.com/kinemetrics/motion-backend-go/internal/middleware"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Capture *handler.CaptureHandler
	Session *handler.SessionHandler
	Stream  *handler.StreamHandler
}

// SetupRouter builds the gin engine: CORS, structured request logging, the
// guarded REST surface, and the sensor websocket.
func SetupRouter(cfg *config.Config, h Handlers, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger(logger))

	// CORS for the companion app
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Motion Backend API is running",
		})
	})

	// The sensor stream bypasses the REST middleware; one connection
	// carries the whole capture at sensor rate.
	r.GET("/ws/capture", h.Stream.Serve)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(cfg.RateLimit, time.Minute))
	api.Use(middleware.Auth(cfg.JWTSecret))
	{
		capture := api.Group("/capture")
		{
			capture.POST("/start", h.Capture.Start)
			capture.POST("/pause", h.Capture.TogglePause)
			capture.POST("/stop", h.Capture.Stop)
			capture.POST("/cancel", h.Capture.Cancel)
			capture.GET("/live", h.Capture.Live)
		}

		sessions := api.Group("/sessions")
		{
			sessions.GET("", h.Session.GetSessions)
			sessions.GET("/stats", h.Session.GetStats)
			sessions.GET("/:id", h.Session.GetSessionByID)
			sessions.GET("/:id/timeseries", h.Session.GetTimeseries)
			sessions.DELETE("/:id", h.Session.DeleteSession)
		}
	}

	return r
}
