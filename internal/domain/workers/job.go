package workers

import (
	"context"
	"sync"

	"github.com/GriffinCanCode/filecore/internal/shared/id"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// Kind is the type of a background job
type Kind string

const (
	KindSizeScan   Kind = "size_scan"
	KindNameSearch Kind = "name_search"
)

// State is a job's lifecycle position
type State string

const (
	StateCreated   State = "created"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
	StateFailed    State = "failed"
)

// IsTerminal reports whether the job has stopped
func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCancelled || s == StateFailed
}

// Job is one running or finished background job
type Job struct {
	id     id.JobID
	kind   Kind
	target paths.Path
	query  string

	ctx    context.Context
	cancel context.CancelFunc
	events chan Event
	done   chan struct{}

	mu        sync.Mutex
	state     State
	cancelled bool // Cancel was called before the job reached a terminal state
	discard   sync.Once
}

func newJob(parent context.Context, kind Kind, target paths.Path, query string, buffer int) *Job {
	ctx, cancel := context.WithCancel(parent)
	return &Job{
		id:     id.NewJobID(),
		kind:   kind,
		target: target,
		query:  query,
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
		state:  StateCreated,
	}
}

func (j *Job) ID() id.JobID       { return j.id }
func (j *Job) Kind() Kind         { return j.kind }
func (j *Job) Target() paths.Path { return j.target }

// Query returns the searched name, empty for size scans
func (j *Job) Query() string { return j.query }

// Events streams the job's events. It is closed after the terminal event.
func (j *Job) Events() <-chan Event { return j.events }

// Done is closed once the job's goroutine has exited
func (j *Job) Done() <-chan struct{} { return j.done }

func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Cancel asks the job to stop. A size scan cancelled before it reported
// its result never reports it.
func (j *Job) Cancel() {
	j.mu.Lock()
	if !j.state.IsTerminal() {
		j.cancelled = true
	}
	j.mu.Unlock()
	j.cancel()
}

// Discard cancels the job and drains its events in the background, for
// consumers that stop reading before the stream closes.
func (j *Job) Discard() {
	j.Cancel()
	j.discard.Do(func() {
		go func() {
			for range j.events {
			}
		}()
	})
}

func (j *Job) setRunning() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.state == StateCreated {
		j.state = StateRunning
	}
}

// finish decides the terminal event from err and the cancel flag. The
// decision and the state change happen under the same lock Cancel takes.
// When send is true the event is also delivered under that lock, which
// requires a free slot in the channel.
func (j *Job) finish(result Event, err error, send bool) Event {
	j.mu.Lock()
	var ev Event
	switch {
	case j.cancelled || j.ctx.Err() != nil:
		j.state, ev = StateCancelled, Cancelled{}
	case err != nil:
		j.state, ev = StateFailed, Failed{Err: err}
	default:
		j.state, ev = StateCompleted, result
	}
	if send {
		j.events <- ev
		close(j.events)
	}
	j.mu.Unlock()

	if !send {
		j.events <- ev
		close(j.events)
	}
	return ev
}
