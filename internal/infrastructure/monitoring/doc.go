/*
Package monitoring provides Prometheus metrics for the filecore server.

# Overview

Metrics are registered on a Registry owned by the Metrics value, so a test
can build as many collectors as it likes without duplicate-registration
panics.

# Families

  - filecore_http_requests_total / filecore_http_request_duration_seconds
  - filecore_transfer_outcomes_total{op,status}
  - filecore_operation_duration_seconds{op}
  - filecore_jobs_total{kind,state} / filecore_jobs_active{kind}
  - filecore_scanned_bytes_total
  - filecore_sessions_active
  - filecore_ws_connections / filecore_ws_messages_total{stream}

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "paste")
	// ... perform operation ...
	timer.Stop()
*/
package monitoring
