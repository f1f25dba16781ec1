package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"dispochart/internal/chart"
	"dispochart/internal/config"
	"dispochart/internal/dataprocessing"
	"dispochart/internal/infrastructure"
	"dispochart/internal/validation"
	"dispochart/pkg/contracts/domain"
)

// Upload is a spreadsheet handed to the service. Size is the declared byte
// count, or -1 when unknown.
type Upload struct {
	Reader   io.Reader
	Filename string
	Size     int64
}

// ChartRequest carries the widget state and display choices for one run.
// Empty fields fall back to the chart configuration.
type ChartRequest struct {
	Filter      domain.FilterState `json:"filter"`
	YMetric     string             `json:"y_metric,omitempty" validate:"omitempty,reachmetric"`
	Marker      domain.MarkerMode  `json:"marker_mode,omitempty" validate:"omitempty,oneof=circle image"`
	PreviewRows int                `json:"preview_rows,omitempty" validate:"gte=0,lte=500"`
	Title       string             `json:"title,omitempty" validate:"max=200"`
}

// ValidationReport describes an upload's header without charting it.
type ValidationReport struct {
	Filename string             `json:"filename"`
	Format   string             `json:"format"`
	Sheet    string             `json:"sheet,omitempty"`
	Rows     int                `json:"rows"`
	Columns  []string           `json:"columns"`
	YMetric  domain.ReachMetric `json:"y_metric"`
	Required []string           `json:"required"`
	Missing  []string           `json:"missing"`
	Valid    bool               `json:"valid"`
}

// SchemaInfo documents what an upload must look like.
type SchemaInfo struct {
	Required            map[domain.ReachMetric][]string `json:"required"`
	Optional            []string                        `json:"optional"`
	YMetrics            []domain.ReachMetric            `json:"y_metrics"`
	DefaultYMetric      domain.ReachMetric              `json:"default_y_metric"`
	SupportedExtensions []string                        `json:"supported_extensions"`
	TagModes            []domain.TagMode                `json:"tag_modes"`
	EmptyTagPolicies    []domain.EmptyTagPolicy         `json:"empty_tag_policies"`
	MarkerModes         []domain.MarkerMode             `json:"marker_modes"`
}

// ChartService runs the upload pipeline with tracing and metrics around it.
type ChartService struct {
	cfg     config.ChartConfig
	files   *validation.FileValidator
	tracer  trace.Tracer
	metrics *infrastructure.BusinessMetrics
	logger  *slog.Logger
}

// NewChartService creates a chart service.
func NewChartService(cfg config.ChartConfig, files *validation.FileValidator, tracer trace.Tracer, metrics *infrastructure.BusinessMetrics, logger *slog.Logger) *ChartService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartService{
		cfg:     cfg,
		files:   files,
		tracer:  tracer,
		metrics: metrics,
		logger:  logger.With(slog.String("service", "chart")),
	}
}

// Generate runs the full pipeline on an upload.
func (s *ChartService) Generate(ctx context.Context, upload Upload, req ChartRequest) (*domain.PipelineResult, error) {
	ctx, span := s.tracer.Start(ctx, "chart.generate", trace.WithAttributes(
		attribute.String("upload.filename", upload.Filename),
		attribute.Int64("upload.size", upload.Size),
	))
	defer span.End()
	start := time.Now()

	result, err := s.generate(ctx, upload, req)
	s.metrics.PipelineDuration.Record(ctx, time.Since(start).Seconds())
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	s.recordResult(ctx, result)
	span.SetAttributes(
		attribute.Int("rows.clean", result.Stats.CleanRows),
		attribute.Int("rows.plotted", result.Stats.FilteredRows),
		attribute.Bool("chart.empty", result.Chart == nil),
	)
	s.logger.InfoContext(ctx, "chart generated",
		slog.String("file", upload.Filename),
		slog.String("y_metric", string(result.YMetric)),
		slog.Int("input_rows", result.Stats.InputRows),
		slog.Int("clean_rows", result.Stats.CleanRows),
		slog.Int("plotted_rows", result.Stats.FilteredRows),
		slog.Bool("empty", result.Chart == nil),
		slog.Duration("duration", time.Since(start)),
	)
	return result, nil
}

func (s *ChartService) generate(ctx context.Context, upload Upload, req ChartRequest) (*domain.PipelineResult, error) {
	table, state, opts, err := s.prepare(ctx, upload, req)
	if err != nil {
		return nil, err
	}

	result, err := dataprocessing.Process(table, state, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to process %s: %w", upload.Filename, err)
	}
	return result, nil
}

// Export runs the pipeline up to filtering and returns every selected row,
// not only the preview.
func (s *ChartService) Export(ctx context.Context, upload Upload, req ChartRequest) ([]domain.Record, error) {
	ctx, span := s.tracer.Start(ctx, "chart.export", trace.WithAttributes(
		attribute.String("upload.filename", upload.Filename),
	))
	defer span.End()

	table, state, opts, err := s.prepare(ctx, upload, req)
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}
	sel, err := dataprocessing.Select(table, state, opts)
	if err != nil {
		err = fmt.Errorf("failed to process %s: %w", upload.Filename, err)
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("rows.exported", len(sel.Rows)))
	s.logger.InfoContext(ctx, "rows exported",
		slog.String("file", upload.Filename),
		slog.Int("clean_rows", sel.Cleaned.Stats.CleanRows),
		slog.Int("exported_rows", len(sel.Rows)),
	)
	return sel.Rows, nil
}

// prepare resolves request defaults and loads the upload.
func (s *ChartService) prepare(ctx context.Context, upload Upload, req ChartRequest) (*dataprocessing.RawTable, domain.FilterState, dataprocessing.Options, error) {
	opts, err := s.pipelineOptions(req)
	if err != nil {
		return nil, domain.FilterState{}, opts, err
	}
	state, err := s.filterState(req.Filter)
	if err != nil {
		return nil, state, opts, err
	}

	table, err := s.load(ctx, upload)
	if err != nil {
		return nil, state, opts, err
	}
	if err := ctx.Err(); err != nil {
		return nil, state, opts, err
	}
	return table, state, opts, nil
}

// Validate loads an upload and checks its header for the metric.
func (s *ChartService) Validate(ctx context.Context, upload Upload, yMetric string) (*ValidationReport, error) {
	ctx, span := s.tracer.Start(ctx, "chart.validate", trace.WithAttributes(
		attribute.String("upload.filename", upload.Filename),
	))
	defer span.End()

	metric, err := s.resolveMetric(yMetric)
	if err != nil {
		return nil, err
	}
	table, err := s.load(ctx, upload)
	if err != nil {
		s.recordFailure(ctx, span, err)
		return nil, err
	}

	required := dataprocessing.RequiredColumns(metric)
	report := &ValidationReport{
		Filename: upload.Filename,
		Format:   string(table.Format),
		Sheet:    table.Sheet,
		Rows:     table.Len(),
		Columns:  table.Columns,
		YMetric:  metric,
		Required: required,
		Missing:  []string{},
		Valid:    true,
	}

	var schemaErr *dataprocessing.SchemaError
	if err := dataprocessing.ValidateColumns(table, required); errors.As(err, &schemaErr) {
		report.Missing = schemaErr.Missing
		report.Valid = false
		s.metrics.SchemaFailures.Add(ctx, 1)
	}

	s.logger.InfoContext(ctx, "upload validated",
		slog.String("file", upload.Filename),
		slog.Bool("valid", report.Valid),
		slog.Any("missing", report.Missing),
	)
	return report, nil
}

// Schema lists required and optional columns for every metric.
func (s *ChartService) Schema() SchemaInfo {
	metrics := []domain.ReachMetric{domain.MetricTwFollowers, domain.MetricWebsiteViews, domain.MetricReach}
	required := make(map[domain.ReachMetric][]string, len(metrics))
	for _, m := range metrics {
		required[m] = dataprocessing.RequiredColumns(m)
	}
	defaultMetric, _ := s.resolveMetric("")

	return SchemaInfo{
		Required:            required,
		Optional:            []string{domain.ColumnHandle, domain.ColumnBio, domain.ColumnImage, domain.ColumnPermissions},
		YMetrics:            metrics,
		DefaultYMetric:      defaultMetric,
		SupportedExtensions: dataprocessing.SupportedExtensions,
		TagModes:            []domain.TagMode{domain.TagModeAny, domain.TagModeExact},
		EmptyTagPolicies:    []domain.EmptyTagPolicy{domain.EmptyTagsShowAll, domain.EmptyTagsShowNone},
		MarkerModes:         []domain.MarkerMode{domain.MarkerCircle, domain.MarkerImage},
	}
}

func (s *ChartService) load(ctx context.Context, upload Upload) (*dataprocessing.RawTable, error) {
	if upload.Reader == nil {
		return nil, ErrNoUpload
	}
	if err := s.files.ValidateUpload(upload.Filename, upload.Size); err != nil {
		return nil, err
	}

	table, err := dataprocessing.Load(upload.Reader, upload.Filename)
	if err != nil {
		return nil, err
	}

	s.metrics.UploadsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("format", string(table.Format))))
	if upload.Size > 0 {
		s.metrics.UploadBytes.Record(ctx, upload.Size)
	}
	s.metrics.RowsLoaded.Add(ctx, int64(table.Len()))
	infrastructure.AddSpanEvent(ctx, "upload.loaded",
		attribute.String("format", string(table.Format)),
		attribute.String("sheet", table.Sheet),
		attribute.Int("rows", table.Len()),
		attribute.Int("columns", len(table.Columns)),
	)
	return table, nil
}

func (s *ChartService) resolveMetric(requested string) (domain.ReachMetric, error) {
	if requested == "" {
		requested = s.cfg.YMetric
	}
	metric, ok := domain.ParseReachMetric(requested)
	if !ok {
		return "", fmt.Errorf("%w: y metric %q", ErrInvalidRequest, requested)
	}
	return metric, nil
}

func (s *ChartService) pipelineOptions(req ChartRequest) (dataprocessing.Options, error) {
	metric, err := s.resolveMetric(req.YMetric)
	if err != nil {
		return dataprocessing.Options{}, err
	}

	marker := req.Marker
	switch marker {
	case "":
		marker = domain.MarkerCircle
	case domain.MarkerCircle, domain.MarkerImage:
	default:
		return dataprocessing.Options{}, fmt.Errorf("%w: marker mode %q", ErrInvalidRequest, marker)
	}

	previewRows := req.PreviewRows
	if previewRows <= 0 {
		previewRows = s.cfg.PreviewRows
	}

	return dataprocessing.Options{
		YMetric:     metric,
		PreviewRows: previewRows,
		Logger:      s.logger,
		Chart: chart.Options{
			XMin:          s.cfg.XMin,
			XMax:          s.cfg.XMax,
			YMetric:       metric,
			Marker:        marker,
			NegativeColor: s.cfg.NegativeColor,
			PositiveColor: s.cfg.PositiveColor,
			PointSize:     s.cfg.PointSize,
			ImageSize:     s.cfg.ImageSize,
			Height:        s.cfg.Height,
			Title:         req.Title,
		},
	}, nil
}

func (s *ChartService) filterState(state domain.FilterState) (domain.FilterState, error) {
	if state.TagMode == "" {
		state.TagMode = domain.TagMode(s.cfg.TagMode)
	}
	if state.EmptyTags == "" {
		state.EmptyTags = domain.EmptyTagPolicy(s.cfg.EmptyTags)
	}

	switch state.TagMode {
	case "", domain.TagModeAny, domain.TagModeExact:
	default:
		return state, fmt.Errorf("%w: tag mode %q", ErrInvalidRequest, state.TagMode)
	}
	switch state.EmptyTags {
	case "", domain.EmptyTagsShowAll, domain.EmptyTagsShowNone:
	default:
		return state, fmt.Errorf("%w: empty tag policy %q", ErrInvalidRequest, state.EmptyTags)
	}
	return state, nil
}

func (s *ChartService) recordResult(ctx context.Context, result *domain.PipelineResult) {
	dropped := []struct {
		reason string
		n      int
	}{
		{"missing", result.Stats.DroppedMissing},
		{"incomplete", result.Stats.DroppedIncomplete},
		{"non_positive", result.Stats.DroppedNonPositive},
	}
	for _, d := range dropped {
		if d.n > 0 {
			s.metrics.RowsDropped.Add(ctx, int64(d.n), metric.WithAttributes(attribute.String("reason", d.reason)))
		}
	}

	if result.Chart == nil {
		s.metrics.EmptyResults.Add(ctx, 1)
		return
	}
	s.metrics.RowsPlotted.Add(ctx, int64(result.Stats.FilteredRows))
	s.metrics.ChartsBuilt.Add(ctx, 1, metric.WithAttributes(
		attribute.String("marker", markerOf(result.Chart)),
		attribute.String("y_metric", string(result.YMetric)),
	))
}

func (s *ChartService) recordFailure(ctx context.Context, span trace.Span, err error) {
	kind := "internal"
	switch {
	case errors.Is(err, dataprocessing.ErrMissingColumns):
		kind = "schema"
		s.metrics.SchemaFailures.Add(ctx, 1)
	case errors.Is(err, dataprocessing.ErrUnsupportedFormat), errors.Is(err, validation.ErrTooLarge),
		errors.Is(err, validation.ErrEmptyUpload), errors.Is(err, ErrNoUpload):
		kind = "upload"
	case errors.Is(err, dataprocessing.ErrUnreadable), errors.Is(err, dataprocessing.ErrEmptyWorkbook):
		kind = "unreadable"
	case errors.Is(err, ErrInvalidRequest):
		kind = "request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		kind = "cancelled"
	}
	s.metrics.PipelineErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))

	span.RecordError(err)
	span.SetStatus(codes.Error, kind)
	level := slog.LevelWarn
	if kind == "internal" {
		level = slog.LevelError
	}
	s.logger.Log(ctx, level, "chart pipeline failed",
		slog.String("kind", kind),
		slog.String("error", err.Error()),
	)
}

func markerOf(spec *domain.ChartSpec) string {
	if spec.Encoding.URL != nil {
		return string(domain.MarkerImage)
	}
	return string(domain.MarkerCircle)
}
