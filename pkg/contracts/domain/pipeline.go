package domain

// NoDataWarning is shown instead of a chart when nothing survives filtering.
const NoDataWarning = "No data to display for the current selection."

// CleaningStats counts what the cleaner kept and dropped.
type CleaningStats struct {
	InputRows          int `json:"input_rows"`
	DroppedMissing     int `json:"dropped_missing"`
	DroppedIncomplete  int `json:"dropped_incomplete"`
	DroppedNonPositive int `json:"dropped_non_positive"`
	CleanRows          int `json:"clean_rows"`
	FilteredRows       int `json:"filtered_rows"`
}

// PipelineResult is everything one run hands back to a UI shell.
type PipelineResult struct {
	Preview []Record      `json:"preview"`
	Chart   *ChartSpec    `json:"chart"`
	Warning string        `json:"warning,omitempty"`
	Options FilterOptions `json:"options"`
	Stats   CleaningStats `json:"stats"`
	YMetric ReachMetric   `json:"y_metric"`
}
