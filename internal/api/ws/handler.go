package ws

import (
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/filecore/internal/api/http"
	"github.com/GriffinCanCode/filecore/internal/api/middleware"
	"github.com/GriffinCanCode/filecore/internal/domain/navigation"
	"github.com/GriffinCanCode/filecore/internal/domain/workers"
	"github.com/GriffinCanCode/filecore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
)

const (
	writeWait    = 10 * time.Second
	pingInterval = 30 * time.Second
	navBacklog   = 16
	streamJobs   = "jobs"
	streamNav    = "navigation"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // The CORS middleware decides which origins reach us
	},
}

var kindOf = apihttp.KindName

// Handler serves the session event streams
type Handler struct {
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewHandler creates a stream handler. metrics may be nil.
func NewHandler(log *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{log: log.Named("ws"), metrics: metrics}
}

// Register mounts the stream routes on a /sessions/:id group
func (h *Handler) Register(sessions gin.IRouter) {
	sessions.GET("/jobs/:job/stream", h.JobStream)
	sessions.GET("/navigation/stream", h.NavigationStream)
}

// JobStream forwards a job's events until its terminal event
func (h *Handler) JobStream(c *gin.Context) {
	s := middleware.SessionFrom(c)
	jobID := id.JobID(c.Param("job"))
	job, ok := s.Jobs.Get(jobID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found", "kind": "not_found"})
		return
	}

	conn, closed, ok := h.open(c)
	if !ok {
		return
	}
	defer h.close(conn)

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case ev, open := <-job.Events():
			if !open {
				// Another stream already consumed this job
				h.goodbye(conn)
				return
			}
			if err := h.send(conn, streamJobs, JobFrame(jobID.String(), ev)); err != nil {
				job.Discard()
				return
			}
			if workers.IsTerminal(ev) {
				s.Jobs.Forget(jobID)
				h.goodbye(conn)
				return
			}
		case <-ping.C:
			if err := h.ping(conn); err != nil {
				job.Discard()
				return
			}
		case <-closed:
			h.log.Debug("client left job stream", zap.String("job_id", jobID.String()))
			job.Discard()
			return
		}
	}
}

// NavigationStream sends the current root, then every root change
func (h *Handler) NavigationStream(c *gin.Context) {
	s := middleware.SessionFrom(c)

	changes := make(chan navigation.Change, navBacklog)
	unsubscribe := s.Nav.OnChange(func(change navigation.Change) {
		select {
		case changes <- change:
		default:
			h.log.Warn("navigation stream lagging, change dropped",
				zap.String("session_id", s.ID.String()),
				zap.String("root", change.Root.String()))
		}
	})
	defer unsubscribe()

	conn, closed, ok := h.open(c)
	if !ok {
		return
	}
	defer h.close(conn)

	if err := h.send(conn, streamNav, NavigationFrame(s.Nav.Snapshot())); err != nil {
		return
	}

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case change := <-changes:
			if err := h.send(conn, streamNav, NavigationFrame(change)); err != nil {
				return
			}
		case <-ping.C:
			if err := h.ping(conn); err != nil {
				return
			}
		case <-closed:
			return
		}
	}
}

// open upgrades the request and starts the reader that notices the client
// going away
func (h *Handler) open(c *gin.Context) (*websocket.Conn, <-chan struct{}, bool) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return nil, nil, false
	}
	if h.metrics != nil {
		h.metrics.IncWSConnections()
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return conn, closed, true
}

func (h *Handler) close(conn *websocket.Conn) {
	if h.metrics != nil {
		h.metrics.DecWSConnections()
	}
	conn.Close()
}

func (h *Handler) send(conn *websocket.Conn, stream string, frame Frame) error {
	data, err := sonic.Marshal(frame)
	if err != nil {
		h.log.Error("frame encoding failed", zap.String("type", frame.Type), zap.Error(err))
		return err
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Debug("websocket write failed", zap.Error(err))
		return err
	}
	if h.metrics != nil {
		h.metrics.RecordWSMessage(stream)
	}
	return nil
}

func (h *Handler) ping(conn *websocket.Conn) error {
	return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (h *Handler) goodbye(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "stream finished")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
