// Package config loads dispochart settings.
//
// Precedence, lowest to highest:
//
//	1. Default()
//	2. config.yaml, configs/config.yaml or the file named by DISPO_CONFIG_FILE
//	3. DISPO_* environment variables
//
// Environment variable names follow the struct nesting:
//
//	DISPO_SERVER_PORT=9090
//	DISPO_SERVER_MAX_UPLOAD_BYTES=52428800
//	DISPO_CHART_EMPTY_TAGS=none
//	DISPO_TELEMETRY_TRACE_EXPORTER=stdout
package config
