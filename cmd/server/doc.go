// Package main is the entry point for the filecore server.
//
// The server exposes the filesystem operation engine behind a desktop file
// browser: per-window sessions with navigation, clipboard, transfers and
// background size scans or name searches.
//
// Architecture:
//
//	Browser UI → REST (gin) → session → filesystem engine → OS
//	           ← WebSocket  ← job events / navigation changes
//
// Configuration:
//   - Environment variables (12-factor, see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Serve on the default port, sessions open at the volume list
//	./server
//
//	# Development logging, sessions open in the home directory
//	./server -dev -start "$HOME"
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
