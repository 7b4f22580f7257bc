package session

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/filecore/internal/domain/clipboard"
	"github.com/GriffinCanCode/filecore/internal/domain/navigation"
	"github.com/GriffinCanCode/filecore/internal/domain/workers"
	"github.com/GriffinCanCode/filecore/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/filecore/internal/logging"
	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Options configures the sessions a Manager creates
type Options struct {
	SearchBuffer int
	WalkWorkers  int
	Logger       *logging.Logger
	Metrics      *monitoring.Metrics
}

// Manager tracks open sessions
type Manager struct {
	sessions sync.Map // id.SessionID -> *Session
	count    int      // Protected by mu
	mu       sync.Mutex

	engine  *filesystem.Engine
	opts    Options
	log     *logging.Logger
	metrics *monitoring.Metrics
}

// NewManager creates a manager whose sessions share engine
func NewManager(engine *filesystem.Engine, opts Options) *Manager {
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}
	return &Manager{
		engine:  engine,
		opts:    opts,
		log:     opts.Logger.Named("session"),
		metrics: opts.Metrics,
	}
}

// Create opens a session at startDir, or at the pseudo-root when startDir
// is empty
func (m *Manager) Create(startDir paths.Path) (*Session, error) {
	nav := navigation.New(m.engine)
	if !startDir.IsVolumes() {
		if err := nav.Enter(startDir); err != nil {
			return nil, fmt.Errorf("start directory: %w", err)
		}
	}

	s := &Session{
		ID:        id.NewSessionID(),
		CreatedAt: time.Now(),
		Nav:       nav,
		Clipboard: clipboard.New(),
		Jobs: workers.NewPool(workers.Options{
			SearchBuffer: m.opts.SearchBuffer,
			WalkWorkers:  m.opts.WalkWorkers,
			CasePolicy:   m.engine.CasePolicy(),
			Logger:       m.opts.Logger,
			Metrics:      m.metrics,
		}),
		engine: m.engine,
	}
	s.lastUsed = s.CreatedAt

	m.sessions.Store(s.ID, s)
	m.adjust(1)

	m.log.Info("session created", zap.String("session_id", s.ID.String()), zap.String("root", nav.Root().String()))
	return s, nil
}

// Get returns an open session
func (m *Manager) Get(sessionID id.SessionID) (*Session, bool) {
	v, ok := m.sessions.Load(sessionID)
	if !ok {
		return nil, false
	}
	return v.(*Session), true
}

// Close closes a session and cancels its jobs
func (m *Manager) Close(sessionID id.SessionID) error {
	v, ok := m.sessions.LoadAndDelete(sessionID)
	if !ok {
		return fmt.Errorf("%w: session %s", types.ErrNotFound, sessionID)
	}
	v.(*Session).Close()
	m.adjust(-1)

	m.log.Info("session closed", zap.String("session_id", sessionID.String()))
	return nil
}

// CloseAll closes every open session
func (m *Manager) CloseAll() {
	m.sessions.Range(func(key, _ any) bool {
		_ = m.Close(key.(id.SessionID))
		return true
	})
}

// Len returns the number of open sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

func (m *Manager) adjust(delta int) {
	m.mu.Lock()
	m.count += delta
	count := m.count
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.SetSessionsActive(count)
	}
}
