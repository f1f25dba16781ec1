package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispochart/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	hs := NewHealthService("1.2.3", "2026-01-01T00:00:00Z", logger)
	ctx := context.Background()

	health := hs.HealthCheck(ctx)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "1.2.3", health.Version)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, "alive", live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "1.2.3", version.Version)
	assert.Equal(t, "v1", version.APIVersion)
	assert.Equal(t, "2026-01-01T00:00:00Z", version.BuildTime)
	assert.False(t, version.StartTime.IsZero())
}

func TestHealthService_Readiness(t *testing.T) {
	hs := NewHealthService("dev", "", nil)

	ready := hs.ReadinessCheck(context.Background())
	assert.Equal(t, "ready", ready.Status)
	pipeline, ok := ready.Services["pipeline"].(ServiceHealth)
	require.True(t, ok)
	assert.Equal(t, "ready", pipeline.Status)
	assert.NotEmpty(t, pipeline.Latency)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	notReady := hs.ReadinessCheck(ctx)
	assert.Equal(t, "not_ready", notReady.Status)
}
