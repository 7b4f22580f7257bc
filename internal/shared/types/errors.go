package types

import (
	"errors"
	"io/fs"
	"syscall"
)

var (
	ErrInvalidName      = errors.New("invalid name")
	ErrInvalidPath      = errors.New("invalid path")
	ErrAlreadyExists    = errors.New("already exists")
	ErrNotFound         = errors.New("not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrNotSupported     = errors.New("not supported")
	ErrForbidden        = errors.New("forbidden")
	ErrEmptySelection   = errors.New("empty selection")
)

// Severity is the modal level a UI uses to present an outcome
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// classified pairs a taxonomy sentinel with the underlying cause, so both
// errors.Is(err, ErrNotFound) and errors.Is(err, fs.ErrNotExist) hold.
type classified struct {
	kind  error
	cause error
}

func (c *classified) Error() string {
	return c.cause.Error()
}

func (c *classified) Unwrap() []error {
	return []error{c.kind, c.cause}
}

// Classify maps an OS error onto the engine taxonomy. Errors that already
// carry a taxonomy sentinel, and errors with no mapping, are returned as-is.
func Classify(err error) error {
	if err == nil || Kind(err) != nil {
		return err
	}

	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &classified{kind: ErrNotFound, cause: err}
	case errors.Is(err, fs.ErrPermission), errors.Is(err, syscall.EROFS):
		return &classified{kind: ErrPermissionDenied, cause: err}
	case errors.Is(err, fs.ErrExist):
		return &classified{kind: ErrAlreadyExists, cause: err}
	case errors.Is(err, syscall.ENOTSUP), errors.Is(err, errors.ErrUnsupported):
		return &classified{kind: ErrNotSupported, cause: err}
	case errors.Is(err, syscall.ENAMETOOLONG):
		return &classified{kind: ErrInvalidName, cause: err}
	}
	return err
}

var taxonomy = []error{
	ErrInvalidName,
	ErrInvalidPath,
	ErrAlreadyExists,
	ErrNotFound,
	ErrPermissionDenied,
	ErrNotSupported,
	ErrForbidden,
	ErrEmptySelection,
}

// Kind returns the taxonomy sentinel err matches, or nil
func Kind(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range taxonomy {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// IsPermission reports whether err is a permission problem after classification
func IsPermission(err error) bool {
	return errors.Is(Classify(err), ErrPermissionDenied)
}

// SeverityOf maps an error onto the three-level modal severity
func SeverityOf(err error) Severity {
	if err == nil {
		return SeverityInfo
	}
	if IsPermission(err) {
		return SeverityWarning
	}
	return SeverityError
}
