// Package http exposes the filesystem engine to a UI process over JSON.
//
// Every route below /sessions/:id runs against one session. Mutating
// routes go through Session.Do so a session handles one foreground
// operation at a time. Batch operations answer 200 with per-item outcomes
// even when items failed; the status code reflects only whole-call errors:
//
//	InvalidName, InvalidPath, EmptySelection  400
//	NotFound                                  404
//	AlreadyExists                             409
//	PermissionDenied, Forbidden               403
//	NotSupported                              501
package http
