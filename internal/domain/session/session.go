package session

import (
	"context"
	"sync"
	"time"

	"github.com/GriffinCanCode/filecore/internal/domain/clipboard"
	"github.com/GriffinCanCode/filecore/internal/domain/navigation"
	"github.com/GriffinCanCode/filecore/internal/domain/workers"
	"github.com/GriffinCanCode/filecore/internal/providers/filesystem"
	"github.com/GriffinCanCode/filecore/internal/shared/id"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// Session is one browser window's state
type Session struct {
	ID        id.SessionID
	CreatedAt time.Time

	Nav       *navigation.State
	Clipboard *clipboard.State
	Jobs      *workers.Pool

	engine *filesystem.Engine

	mu       sync.Mutex // Serializes foreground operations
	lastUsed time.Time  // Protected by mu
}

// Engine returns the engine this session mutates the filesystem through
func (s *Session) Engine() *filesystem.Engine {
	return s.engine
}

// Do runs fn with the session's foreground lock held
func (s *Session) Do(fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = time.Now()
	return fn()
}

// LastUsed returns when Do last ran
func (s *Session) LastUsed() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUsed
}

// Paste resolves the clipboard into destination, or into the current root
// when destination is the pseudo-root value.
func (s *Session) Paste(ctx context.Context, destination paths.Path) ([]filesystem.TransferTask, error) {
	var tasks []filesystem.TransferTask
	err := s.Do(func() error {
		if destination.IsVolumes() {
			destination = s.Nav.Root()
		}
		var err error
		tasks, err = s.engine.Paste(ctx, s.Clipboard, destination)
		return err
	})
	return tasks, err
}

// Close cancels the session's jobs and waits for them
func (s *Session) Close() {
	s.Jobs.Close()
}
