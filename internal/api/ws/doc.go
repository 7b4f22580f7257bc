// Package ws streams session events to the UI over WebSocket.
//
// Streams are server → client only; anything the client sends is read and
// dropped so close frames and pongs are processed. Each event is one text
// frame holding a JSON object with a "type" field.
//
// Job stream (GET /sessions/:id/jobs/:job/stream):
//   - found: {dir, name}, one per name search match
//   - completed: {bytes}, a size scan's result
//   - finished: a name search ran to the end
//   - cancelled: the job was cancelled
//   - failed: {error, kind}, the target could not be walked
//
// The server closes the connection after the terminal frame. A client that
// disconnects early cancels the job.
//
// Navigation stream (GET /sessions/:id/navigation/stream):
//   - navigation: {previous, root, breadcrumb}, first the current state and
//     then one frame per root change
//
// Example Usage:
//
//	handler := ws.NewHandler(logger, metrics)
//	handler.Register(sessionGroup)
package ws
