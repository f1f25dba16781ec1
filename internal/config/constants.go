package config

import (
	"time"

	"dispochart/pkg/contracts"
)

// Application constants
const (
	AppName    = "dispochart"
	AppVersion = contracts.Version

	DefaultPort           = 8080
	DefaultRequestTimeout = 60 * time.Second
	DefaultMaxUploadBytes = 20 << 20

	DefaultRateLimit = 20 // requests per second per client
	DefaultBurstSize = 40

	// MultipartMemory is how much of an upload is held in memory before
	// spilling to a temp file.
	MultipartMemory = 8 << 20
)
