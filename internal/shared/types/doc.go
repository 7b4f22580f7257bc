// Package types provides shared data structures for the filesystem engine.
//
// This package defines the error taxonomy and outcome vocabulary used across
// all engine components, so that the transfer engine, the workers and the
// HTTP adapter agree on what a failure means.
//
// Error Taxonomy:
//   - ErrInvalidName: a user-supplied name failed validation
//   - ErrInvalidPath: a path is malformed, missing or of the wrong kind
//   - ErrAlreadyExists: the destination is taken
//   - ErrNotFound: the source vanished before the operation completed
//   - ErrPermissionDenied: the OS refused access
//   - ErrNotSupported: the platform cannot perform the operation
//   - ErrForbidden: the operation is meaningless at this location
//   - ErrEmptySelection: a batch operation received no items
//
// Severity:
//   - Info: nothing went wrong
//   - Warning: permission problems (callers suggest retrying elevated)
//   - Error: validation and collision problems
//
// Example Usage:
//
//	if errors.Is(err, types.ErrAlreadyExists) {
//	    // ask the user for another name
//	}
//	sev := types.SeverityOf(err)
package types
