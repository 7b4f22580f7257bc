package ws

import (
	"github.com/GriffinCanCode/filecore/internal/domain/navigation"
	"github.com/GriffinCanCode/filecore/internal/domain/workers"
	"github.com/GriffinCanCode/filecore/internal/shared/paths"
)

// Frame is one message on a stream
type Frame struct {
	Type  string `json:"type"`
	JobID string `json:"job_id,omitempty"`

	Dir   paths.Path `json:"dir,omitempty"`
	Name  string     `json:"name,omitempty"`
	Bytes *int64     `json:"bytes,omitempty"`
	Error string     `json:"error,omitempty"`
	Kind  string     `json:"kind,omitempty"`

	Previous   *paths.Path `json:"previous,omitempty"`
	Root       *paths.Path `json:"root,omitempty"`
	Breadcrumb []string    `json:"breadcrumb,omitempty"`
}

// JobFrame renders a worker event
func JobFrame(jobID string, ev workers.Event) Frame {
	f := Frame{Type: ev.Type(), JobID: jobID}
	switch e := ev.(type) {
	case workers.Found:
		f.Dir, f.Name = e.Dir, e.Name
	case workers.Completed:
		bytes := e.Bytes
		f.Bytes = &bytes
	case workers.Failed:
		if e.Err != nil {
			f.Error = e.Err.Error()
			f.Kind = kindOf(e.Err)
		}
	}
	return f
}

// NavigationFrame renders a root change
func NavigationFrame(c navigation.Change) Frame {
	previous, root := c.Previous, c.Root
	crumbs := c.Breadcrumb
	if crumbs == nil {
		crumbs = []string{}
	}
	return Frame{Type: "navigation", Previous: &previous, Root: &root, Breadcrumb: crumbs}
}
