// Package filesystem is the transfer engine behind the file browser.
//
// The package is organized by concern:
//   - collision: destination naming when a paste target already exists
//   - operations: paste (copy, or copy-then-delete for cut) and tree copies
//   - basic: delete, recycle, rename, create, open
//   - archives: zip creation with staging, zip/tar extraction
//   - metadata, directory: entries, MIME detection, listings
//
// All operations:
//   - Run synchronously on the caller
//   - Resolve their paths once when they start
//   - Report batch results per item, so one failure never aborts its siblings
//   - Classify OS errors into the shared taxonomy (see internal/shared/types)
//
// Example Usage:
//
//	engine := filesystem.New(filesystem.Options{Trash: trash, Logger: log})
//	tasks, err := engine.Paste(ctx, clip, destination)
package filesystem
