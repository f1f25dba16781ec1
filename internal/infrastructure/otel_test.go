package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestInitializeOTelPrometheus(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{
		ServiceName:    "dispochart-test",
		ServiceVersion: "test",
		Environment:    "test",
		TraceExporter:  "none",
		MetricExporter: "prometheus",
		SampleRatio:    1,
	}, discardLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	require.NotNil(t, providers.PrometheusHTTP)
	require.NotNil(t, providers.Meter)
	require.NotNil(t, providers.Tracer)

	bm, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	ctx := context.Background()
	bm.ChartsBuilt.Add(ctx, 1, metric.WithAttributes(attribute.String("marker", "circle")))
	bm.RowsDropped.Add(ctx, 3, metric.WithAttributes(attribute.String("reason", "missing")))

	w := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "charts_built_total")
	assert.Contains(t, body, `reason="missing"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestInitializeOTelTwice(t *testing.T) {
	cfg := &OTelConfig{ServiceName: "x", TraceExporter: "none", MetricExporter: "prometheus", SampleRatio: 1}
	for i := 0; i < 2; i++ {
		providers, err := InitializeOTel(cfg, discardLogger())
		require.NoError(t, err)
		require.NoError(t, providers.Shutdown(context.Background()))
	}
}

func TestInitializeOTelDisabled(t *testing.T) {
	providers, err := InitializeOTel(&OTelConfig{ServiceName: "x", TraceExporter: "none", MetricExporter: "none"}, discardLogger())
	require.NoError(t, err)

	assert.Nil(t, providers.PrometheusHTTP)
	assert.Nil(t, providers.TracerProvider)

	bm, err := CreateBusinessMetrics(providers.Meter)
	require.NoError(t, err)
	bm.UploadsTotal.Add(context.Background(), 1)

	ctx, span := providers.Tracer.Start(context.Background(), "noop")
	AddSpanEvent(ctx, "event", attribute.Int("rows", 1))
	RecordError(ctx, assert.AnError)
	span.End()
	assert.NoError(t, providers.Shutdown(context.Background()))
}

func TestInitializeOTelUnsupported(t *testing.T) {
	_, err := InitializeOTel(&OTelConfig{TraceExporter: "jaeger"}, discardLogger())
	assert.Error(t, err)

	_, err = InitializeOTel(&OTelConfig{TraceExporter: "none", MetricExporter: "statsd"}, discardLogger())
	assert.Error(t, err)
}
