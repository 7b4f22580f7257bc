package workers

import (
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// Event is one message on a job's stream. The set of events is closed.
type Event interface {
	Type() string
	event()
}

// Found is a name search match
type Found struct {
	Dir  paths.Path `json:"dir"`
	Name string     `json:"name"`
}

// Completed is a size scan's result
type Completed struct {
	Bytes int64 `json:"bytes"`
}

// Finished ends a name search that ran to the end
type Finished struct{}

// Cancelled ends a job that was cancelled before it finished
type Cancelled struct{}

// Failed ends a job whose target could not be walked at all
type Failed struct {
	Err error `json:"-"`
}

func (Found) Type() string     { return "found" }
func (Completed) Type() string { return "completed" }
func (Finished) Type() string  { return "finished" }
func (Cancelled) Type() string { return "cancelled" }
func (Failed) Type() string    { return "failed" }

func (Found) event()     {}
func (Completed) event() {}
func (Finished) event()  {}
func (Cancelled) event() {}
func (Failed) event()    {}

// IsTerminal reports whether ev ends a stream
func IsTerminal(ev Event) bool {
	_, found := ev.(Found)
	return !found
}
