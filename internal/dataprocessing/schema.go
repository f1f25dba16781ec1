package dataprocessing

import (
	"errors"
	"fmt"
	"strings"

	"dispochart/pkg/contracts/domain"
)

// ErrMissingColumns matches any *SchemaError with errors.Is.
var ErrMissingColumns = errors.New("missing required columns")

// SchemaError lists required columns absent from the header row.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Is(target error) bool {
	return target == ErrMissingColumns
}

// RequiredTextColumns must be present and non-empty on every kept row.
var RequiredTextColumns = []string{domain.ColumnName, domain.ColumnFaction, domain.ColumnTags}

// RequiredColumns returns the header names an upload needs for the metric
// plotted on the Y axis.
func RequiredColumns(metric domain.ReachMetric) []string {
	cols := append([]string{}, RequiredTextColumns...)
	cols = append(cols, domain.ColumnDisposition)
	return append(cols, metric.SourceColumns()...)
}

// RequiredNumericColumns are the numeric columns a row must have to be plotted.
func RequiredNumericColumns(metric domain.ReachMetric) []string {
	return append([]string{domain.ColumnDisposition}, metric.SourceColumns()...)
}

// ValidateColumns checks that every required column exists in the table.
// Names are matched exactly, case and surrounding whitespace included.
func ValidateColumns(table *RawTable, required []string) error {
	var missing []string
	for _, col := range required {
		if !table.Has(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return &SchemaError{Missing: missing}
	}
	return nil
}
