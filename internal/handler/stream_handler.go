package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/geo/r3"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kinemetrics/motion-backend-go/internal/models"
	"github.com/kinemetrics/motion-backend-go/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 256 * 1024
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Sensor clients connect from the capture device on the local network.
		return true
	},
	ReadBufferSize:  4096,
	WriteBufferSize: 1024,
}

// StreamHandler terminates the sensor websocket. One connection carries all
// three sensor streams as typed JSON messages, routed into the live pipeline.
type StreamHandler struct {
	capture *service.CaptureService
	logger  *zap.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(capture *service.CaptureService, logger *zap.Logger) *StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandler{capture: capture, logger: logger}
}

// streamMessage is the envelope of every inbound sensor message.
type streamMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// jointFramePayload is the wire form of a body-tracker frame. Positions come
// as [x, y, z] triples in meters.
type jointFramePayload struct {
	Timestamp float64                           `json:"timestamp"`
	Joints    map[models.JointName][3]float64 `json:"joints"`
}

func (p *jointFramePayload) toFrame() *models.JointFrame {
	joints := make(map[models.JointName]r3.Vector, len(p.Joints))
	for name, v := range p.Joints {
		joints[name] = r3.Vector{X: v[0], Y: v[1], Z: v[2]}
	}
	return &models.JointFrame{Timestamp: p.Timestamp, Joints: joints}
}

// Serve handles GET /ws/capture. The read loop runs until the client closes
// or errors; messages arriving outside an active session are dropped by the
// capture service, not rejected here, so a client may connect before start.
func (h *StreamHandler) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	go h.pingLoop(conn, done)
	defer close(done)

	h.logger.Info("sensor stream connected", zap.String("remote", conn.RemoteAddr().String()))
	for {
		var msg streamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("sensor stream read error", zap.Error(err))
			}
			return
		}
		if err := h.route(msg); err != nil {
			h.logger.Warn("dropping malformed sensor message",
				zap.String("type", msg.Type), zap.Error(err))
		}
	}
}

func (h *StreamHandler) route(msg streamMessage) error {
	switch msg.Type {
	case "joint_frame":
		var p jointFramePayload
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		h.capture.IngestJointFrame(p.toFrame())
	case "motion_sample":
		var s models.MotionSample
		if err := json.Unmarshal(msg.Data, &s); err != nil {
			return err
		}
		h.capture.IngestMotionSample(s)
	case "pedometer":
		var p models.PedometerSnapshot
		if err := json.Unmarshal(msg.Data, &p); err != nil {
			return err
		}
		h.capture.IngestPedometerSnapshot(p)
	default:
		// Unknown types are ignored so sensor firmware can ship new streams
		// ahead of the backend.
	}
	return nil
}

func (h *StreamHandler) pingLoop(conn *websocket.Conn, done chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
