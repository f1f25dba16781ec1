package http

import (
	"context"

	"dispochart/internal/services"
	"dispochart/pkg/contracts/domain"
)

// ChartServiceInterface defines the chart operations the handler needs
type ChartServiceInterface interface {
	Generate(ctx context.Context, upload services.Upload, req services.ChartRequest) (*domain.PipelineResult, error)
	Validate(ctx context.Context, upload services.Upload, yMetric string) (*services.ValidationReport, error)
	Export(ctx context.Context, upload services.Upload, req services.ChartRequest) ([]domain.Record, error)
	Schema() services.SchemaInfo
}
