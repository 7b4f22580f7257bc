package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/filecore/internal/api/middleware"
	"github.com/GriffinCanCode/filecore/internal/domain/session"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/providers/trash"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Version is reported by the health endpoint
const Version = "0.1.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	sessions *session.Manager
	startDir paths.Path
	log      *logging.Logger
	trash    TrashLister
	launcher LauncherStatus
}

// TrashLister reads the recycle bin contents
type TrashLister interface {
	List() ([]trash.Item, error)
}

// LauncherStatus reports whether launches are being skipped
type LauncherStatus interface {
	Suspended() bool
}

// Option configures optional collaborators
type Option func(*Handlers)

// WithTrash enables GET /trash
func WithTrash(t TrashLister) Option {
	return func(h *Handlers) { h.trash = t }
}

// WithLauncher adds the launcher state to the health report
func WithLauncher(l LauncherStatus) Option {
	return func(h *Handlers) { h.launcher = l }
}

// NewHandlers creates a new handler set. New sessions open at startDir.
func NewHandlers(sessions *session.Manager, startDir paths.Path, log *logging.Logger, opts ...Option) *Handlers {
	if log == nil {
		log = logging.NewNop()
	}
	h := &Handlers{
		sessions: sessions,
		startDir: startDir,
		log:      log.Named("api"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Health handles health check
func (h *Handlers) Health(c *gin.Context) {
	body := gin.H{
		"status":   "healthy",
		"service":  "filecore",
		"version":  Version,
		"sessions": h.sessions.Len(),
	}
	if h.launcher != nil {
		body["launcher_suspended"] = h.launcher.Suspended()
	}
	c.JSON(http.StatusOK, body)
}

// ListTrash returns the recycle bin contents, newest first
func (h *Handlers) ListTrash(c *gin.Context) {
	if h.trash == nil {
		respondError(c, fmt.Errorf("%w: no recycle bin", types.ErrNotSupported))
		return
	}
	items, err := h.trash.List()
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []trash.Item{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// CreateSession opens a session at the configured start directory
func (h *Handlers) CreateSession(c *gin.Context) {
	s, err := h.sessions.Create(h.startDir)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sessionResponse{
		ID:                 s.ID.String(),
		navigationResponse: newNavigationResponse(s.Nav.Snapshot()),
	})
}

// DeleteSession closes a session and cancels its jobs
func (h *Handlers) DeleteSession(c *gin.Context) {
	if err := h.sessions.Close(id.SessionID(c.Param("id"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// parseItems converts request paths, failing on the first bad one
func parseItems(raw []string) ([]paths.Path, error) {
	items := make([]paths.Path, 0, len(raw))
	for _, r := range raw {
		p, err := paths.Parse(r)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

// parseOr parses raw, or returns fallback when raw is empty
func parseOr(raw string, fallback paths.Path) (paths.Path, error) {
	if raw == "" {
		return fallback, nil
	}
	return paths.Parse(raw)
}

// bindOptional binds a JSON body when one was sent
func bindOptional(c *gin.Context, req any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(req); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

var sessionFrom = middleware.SessionFrom
