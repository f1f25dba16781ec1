// Package services sits between the HTTP handlers and the data pipeline.
//
// ChartService validates an upload, runs load, clean, filter and chart for
// it, and records spans and business metrics around each run. It keeps no
// state between calls, so one instance serves every request concurrently.
// Request defaults (tag mode, empty-tag policy, reach metric, colours, the
// disposition domain) come from config.ChartConfig.
//
// HealthService answers the liveness and readiness probes. Readiness pushes
// a small CSV through the pipeline.
package services
