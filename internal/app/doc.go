// Package app wires configuration, logging, telemetry, services and the chi
// router into a runnable server.
//
// NewApplication loads config (defaults, then config.yaml, then DISPO_*
// variables) and initializes the process logger; NewApplicationWithConfig
// takes both explicitly and is what tests use.
//
// Run serves until its context is cancelled or SIGINT/SIGTERM arrives, then
// drains in-flight requests within Server.ShutdownTimeout and flushes the
// telemetry providers. Errors are returned, never passed to os.Exit.
package app
