package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"dispochart/internal/dataprocessing"
	"dispochart/pkg/contracts"
	"dispochart/pkg/contracts/domain"
)

// probeSheet is a two-row upload pushed through the pipeline by readiness checks.
const probeSheet = "Name,Faction,Tags,Disposition,TwFollowers,WebsiteViews\n" +
	"probe-a,A,\"x, y\",-1,10,5\n" +
	"probe-b,B,y,2,20,0\n"

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Version   string         `json:"version"`
	Runtime   map[string]any `json:"runtime,omitempty"`
	Services  map[string]any `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// NewHealthService creates a new health service
func NewHealthService(version, buildTime string, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
		logger:    logger.With(slog.String("service", "health")),
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	hs.logger.DebugContext(ctx, "health check",
		slog.String("uptime", time.Since(hs.startTime).String()))
	return HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs a probe spreadsheet through the pipeline.
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]any{},
	}

	pipeline := hs.checkPipeline(ctx)
	status.Services["pipeline"] = pipeline
	if pipeline.Status != "ready" {
		status.Status = "not_ready"
		hs.logger.WarnContext(ctx, "readiness probe failed", slog.String("message", pipeline.Message))
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]any{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// BuildInfo is the /api/version payload.
type BuildInfo struct {
	contracts.VersionInfo
	StartTime     time.Time `json:"start_time"`
	UptimeSeconds float64   `json:"uptime_seconds"`
}

// Version reports the running build. The version and build time given to
// NewHealthService override the compiled-in values.
func (hs *HealthService) Version() BuildInfo {
	info := contracts.GetVersionInfo()
	info.Version = hs.version
	if hs.buildTime != "" {
		info.BuildTime = hs.buildTime
	}
	return BuildInfo{
		VersionInfo:   info,
		StartTime:     hs.startTime,
		UptimeSeconds: time.Since(hs.startTime).Seconds(),
	}
}

func (hs *HealthService) checkPipeline(ctx context.Context) ServiceHealth {
	if err := ctx.Err(); err != nil {
		return ServiceHealth{Status: "not_ready", Message: err.Error()}
	}

	start := time.Now()
	result, err := dataprocessing.Run(strings.NewReader(probeSheet), "probe.csv",
		domain.FilterState{}, dataprocessing.Options{YMetric: domain.MetricReach})
	if err != nil {
		return ServiceHealth{Status: "not_ready", Message: fmt.Sprintf("probe failed: %v", err)}
	}
	if result.Chart == nil || result.Stats.FilteredRows != 2 {
		return ServiceHealth{
			Status:  "not_ready",
			Message: fmt.Sprintf("probe plotted %d rows, want 2", result.Stats.FilteredRows),
		}
	}
	return ServiceHealth{
		Status:  "ready",
		Message: "pipeline is healthy",
		Latency: time.Since(start).String(),
	}
}
