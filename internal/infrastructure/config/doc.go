// Package config provides 12-factor configuration for the filecore server.
//
// Configuration is loaded from environment variables with defaults; flags in
// cmd/server may override individual values.
//
// Sections:
//   - Server: listen address
//   - Logging: level and encoding
//   - RateLimit: per-IP request limiting
//   - Engine: start directory, path comparison, archive staging, trash location
//   - Workers: search buffering and walk parallelism
//
// Environment variables:
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - FILECORE_START_DIR, FILECORE_CASE_INSENSITIVE,
//     FILECORE_ARCHIVE_STAGING_THRESHOLD, FILECORE_TRASH_DIR
//   - FILECORE_SEARCH_BUFFER, FILECORE_WALK_WORKERS
package config
