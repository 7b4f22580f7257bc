// Package middleware provides the HTTP middleware stack for the filecore API.
//
// Middleware stack includes:
//   - CORS: cross-origin access for the UI process, WebSocket upgrades included
//   - RateLimit: per-IP token bucket with idle client eviction
//   - RequestLogger: one structured zap entry per request
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
