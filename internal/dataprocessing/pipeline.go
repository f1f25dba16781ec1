package dataprocessing

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"dispochart/internal/chart"
	"dispochart/pkg/contracts/domain"
)

// DefaultPreviewRows matches a dataframe head().
const DefaultPreviewRows = 5

// Options configures one pipeline pass.
type Options struct {
	YMetric     domain.ReachMetric
	Chart       chart.Options
	PreviewRows int
	Logger      *slog.Logger
}

// Run loads, validates, cleans, filters and charts an upload. It holds no
// state between calls; every widget change re-runs it from the raw bytes.
func Run(raw io.Reader, filename string, state domain.FilterState, opts Options) (*domain.PipelineResult, error) {
	table, err := Load(raw, filename)
	if err != nil {
		return nil, err
	}
	return Process(table, state, opts)
}

// Selection is a cleaned table with the widget state applied.
type Selection struct {
	Cleaned *CleanedTable
	Index   *FilterIndex
	Rows    []domain.Record
	YMetric domain.ReachMetric
}

// Select validates, cleans and filters a loaded table.
func Select(table *RawTable, state domain.FilterState, opts Options) (*Selection, error) {
	metric := opts.YMetric
	if metric == "" {
		metric = domain.MetricReach
	}

	if err := ValidateColumns(table, RequiredColumns(metric)); err != nil {
		return nil, err
	}

	cleaned, err := NewCleaner(CleanerOptions{YMetric: metric, Logger: opts.Logger}).Clean(table)
	if err != nil {
		return nil, err
	}

	idx := NewFilterIndex(cleaned.Records)
	rows, err := idx.Apply(state)
	if err != nil {
		return nil, err
	}
	return &Selection{Cleaned: cleaned, Index: idx, Rows: rows, YMetric: metric}, nil
}

// Process runs every stage after loading.
func Process(table *RawTable, state domain.FilterState, opts Options) (*domain.PipelineResult, error) {
	previewRows := opts.PreviewRows
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}

	sel, err := Select(table, state, opts)
	if err != nil {
		return nil, err
	}

	result := &domain.PipelineResult{
		Preview: head(sel.Rows, previewRows),
		Options: domain.FilterOptions{
			Factions: sel.Cleaned.Factions,
			Tags:     sel.Index.TagOptions(state.Factions, state.TagMode),
		},
		Stats:   sel.Cleaned.Stats,
		YMetric: sel.YMetric,
	}
	result.Stats.FilteredRows = len(sel.Rows)

	chartOpts := opts.Chart
	chartOpts.YMetric = sel.YMetric
	spec, err := chart.BuildScatterSpec(sel.Rows, chartOpts)
	switch {
	case errors.Is(err, chart.ErrNoData):
		result.Warning = domain.NoDataWarning
	case err != nil:
		return nil, fmt.Errorf("failed to build chart: %w", err)
	default:
		result.Chart = spec
	}
	return result, nil
}

func head(records []domain.Record, n int) []domain.Record {
	if len(records) < n {
		n = len(records)
	}
	out := make([]domain.Record, n)
	copy(out, records[:n])
	return out
}
