package filesystem

import (
	"context"
	"time"

	"github.com/GriffinCanCode/filecore/internal/shared/paths"
	"github.com/GriffinCanCode/filecore/internal/shared/types"
)

// Re-exported so callers can match errors without importing shared/types
var (
	ErrInvalidName      = types.ErrInvalidName
	ErrInvalidPath      = types.ErrInvalidPath
	ErrAlreadyExists    = types.ErrAlreadyExists
	ErrNotFound         = types.ErrNotFound
	ErrPermissionDenied = types.ErrPermissionDenied
	ErrNotSupported     = types.ErrNotSupported
	ErrForbidden        = types.ErrForbidden
	ErrEmptySelection   = types.ErrEmptySelection
)

// SeverityOf maps an operation error onto a modal severity
func SeverityOf(err error) types.Severity {
	return types.SeverityOf(err)
}

// Kind distinguishes files from directories
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry describes one filesystem object at the moment it was read
type Entry struct {
	Path     paths.Path `json:"path"`
	Name     string     `json:"name"`
	Kind     Kind       `json:"kind"`
	Size     int64      `json:"size"`
	Mode     string     `json:"mode"`
	Modified time.Time  `json:"modified"`
	Hidden   bool       `json:"hidden"`
	Symlink  bool       `json:"symlink,omitempty"`
	MIME     string     `json:"mime,omitempty"`
	Charset  string     `json:"charset,omitempty"`
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// Status is the outcome class of one TransferTask
type Status string

const (
	StatusCompleted        Status = "completed"
	StatusSkipped          Status = "skipped"
	StatusFailed           Status = "failed"
	StatusPermissionDenied Status = "permission_denied"
)

// TransferTask is the per-item result of a batch operation
type TransferTask struct {
	Source            paths.Path `json:"source"`
	DestinationParent paths.Path `json:"destination_parent,omitempty"`
	Status            Status     `json:"status"`
	FinalPath         paths.Path `json:"final_path,omitempty"`
	Reason            string     `json:"reason,omitempty"`
	Err               error      `json:"-"`
}

// OK reports whether the task did not fail
func (t TransferTask) OK() bool {
	return t.Status == StatusCompleted || t.Status == StatusSkipped
}

// Severity maps the task outcome onto a modal severity
func (t TransferTask) Severity() types.Severity {
	switch t.Status {
	case StatusPermissionDenied:
		return types.SeverityWarning
	case StatusFailed:
		return types.SeverityError
	default:
		return types.SeverityInfo
	}
}

// Trash sends paths to the platform recycle bin
type Trash interface {
	Put(path paths.Path) error
}

// Opener hands a path to the platform default handler
type Opener interface {
	Open(ctx context.Context, path paths.Path) error
}
