package resilience

import (
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned without running the call while the breaker is open
var ErrOpen = errors.New("circuit breaker is open")

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

const (
	DefaultThreshold = 5
	DefaultCooldown  = 30 * time.Second
)

// Settings configures a Breaker
type Settings struct {
	// Threshold is the number of consecutive failures that opens the breaker
	Threshold int
	// Cooldown is how long the breaker stays open before admitting a trial call
	Cooldown time.Duration
	// OnStateChange is called outside the breaker lock on every transition
	OnStateChange func(name string, from, to State)

	now func() time.Time
}

// Breaker stops calling a failing collaborator for a cooldown period. After
// the cooldown a single trial call is admitted; its outcome closes or
// reopens the breaker.
type Breaker struct {
	name     string
	settings Settings

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// New creates a closed breaker, filling unset settings with defaults
func New(name string, settings Settings) *Breaker {
	if settings.Threshold <= 0 {
		settings.Threshold = DefaultThreshold
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = DefaultCooldown
	}
	if settings.now == nil {
		settings.now = time.Now
	}
	return &Breaker{name: name, settings: settings}
}

func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state, moving open to half-open once the
// cooldown has elapsed
func (b *Breaker) State() State {
	b.mu.Lock()
	state, from, changed := b.refresh()
	b.mu.Unlock()
	b.notify(changed, from, state)
	return state
}

// Do runs fn unless the breaker is open. fn's error counts as a failure.
func (b *Breaker) Do(fn func() error) error {
	if err := b.admit(); err != nil {
		return err
	}
	err := fn()
	b.record(err == nil)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	state, from, changed := b.refresh()
	var err error
	switch {
	case state == StateOpen:
		err = ErrOpen
	case state == StateHalfOpen && b.probing:
		err = ErrOpen
	case state == StateHalfOpen:
		b.probing = true
	}
	b.mu.Unlock()
	b.notify(changed, from, state)
	return err
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	from := b.state
	switch {
	case success:
		b.failures = 0
		b.state = StateClosed
	case b.state == StateHalfOpen:
		b.open()
	default:
		b.failures++
		if b.failures >= b.settings.Threshold {
			b.open()
		}
	}
	b.probing = false
	to := b.state
	b.mu.Unlock()
	b.notify(from != to, from, to)
}

// refresh must be called with mu held
func (b *Breaker) refresh() (state, from State, changed bool) {
	from = b.state
	if b.state == StateOpen && !b.settings.now().Before(b.openedAt.Add(b.settings.Cooldown)) {
		b.state = StateHalfOpen
		b.probing = false
	}
	return b.state, from, from != b.state
}

// open must be called with mu held
func (b *Breaker) open() {
	b.state = StateOpen
	b.failures = 0
	b.openedAt = b.settings.now()
}

func (b *Breaker) notify(changed bool, from, to State) {
	if changed && b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, from, to)
	}
}
