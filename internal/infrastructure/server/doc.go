// Package server assembles the filecore HTTP server: configuration, the
// engine and its collaborators, the session manager, the middleware stack
// and the JSON and WebSocket routes.
//
// Middleware order:
//  1. gin.Recovery
//  2. RequestLogger (zap)
//  3. Prometheus request metrics
//  4. CORS
//  5. Per-IP rate limit, when enabled
package server
