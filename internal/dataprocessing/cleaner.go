package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"dispochart/pkg/contracts/domain"
)

// CleanerOptions configures a Cleaner.
type CleanerOptions struct {
	YMetric domain.ReachMetric
	Logger  *slog.Logger
}

// CleanedTable is the output of Clean: rows fit for a log-scale scatter
// plus the values the filter widgets offer.
type CleanedTable struct {
	Records  []domain.Record
	Factions []string
	Tags     []string
	RawTags  []string
	Stats    domain.CleaningStats
}

// Cleaner turns a validated RawTable into typed records. Stages run in a
// fixed order: coerce, drop missing, drop incomplete, derive Reach, drop
// non-positive Y, expand tags.
type Cleaner struct {
	metric domain.ReachMetric
	logger *slog.Logger
}

// NewCleaner creates a cleaner for the given Y metric.
func NewCleaner(opts CleanerOptions) *Cleaner {
	metric := opts.YMetric
	if metric == "" {
		metric = domain.MetricReach
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{
		metric: metric,
		logger: logger.With(slog.String("component", "cleaner")),
	}
}

// Clean runs every stage. The table must already have passed
// ValidateColumns for the cleaner's metric.
func (c *Cleaner) Clean(table *RawTable) (*CleanedTable, error) {
	if err := ValidateColumns(table, RequiredColumns(c.metric)); err != nil {
		return nil, err
	}

	out := &CleanedTable{}
	out.Stats.InputRows = table.Len()

	records := c.coerce(table)
	records, out.Stats.DroppedMissing = c.dropMissing(records)
	records, out.Stats.DroppedIncomplete = c.dropIncomplete(records)
	deriveReach(records)
	records, out.Stats.DroppedNonPositive = c.dropNonPositive(records)
	for i := range records {
		records[i].TagList = SplitTags(records[i].Tags)
	}

	out.Records = records
	out.Factions = UniqueFactions(records)
	out.Tags = UniqueTags(records)
	out.RawTags = UniqueRawTags(records)
	out.Stats.CleanRows = len(records)

	c.logger.Debug("table cleaned",
		slog.Int("input_rows", out.Stats.InputRows),
		slog.Int("dropped_missing", out.Stats.DroppedMissing),
		slog.Int("dropped_incomplete", out.Stats.DroppedIncomplete),
		slog.Int("dropped_non_positive", out.Stats.DroppedNonPositive),
		slog.Int("clean_rows", out.Stats.CleanRows),
		slog.String("y_metric", string(c.metric)))

	if got := out.Stats.DroppedMissing + out.Stats.DroppedIncomplete + out.Stats.DroppedNonPositive + out.Stats.CleanRows; got != out.Stats.InputRows {
		return nil, fmt.Errorf("cleaning accounted for %d of %d rows", got, out.Stats.InputRows)
	}
	return out, nil
}

func (c *Cleaner) coerce(table *RawTable) []domain.Record {
	known := make(map[string]struct{}, len(domain.KnownColumns))
	for _, col := range domain.KnownColumns {
		known[col] = struct{}{}
	}

	records := make([]domain.Record, table.Len())
	for i := range table.Rows {
		text := func(col string) string {
			v, _ := table.Value(i, col)
			return v
		}
		num := func(col string) domain.Number {
			v, ok := table.Value(i, col)
			if !ok {
				return domain.Missing
			}
			return CoerceNumber(v)
		}

		rec := domain.Record{
			Name:         strings.TrimSpace(text(domain.ColumnName)),
			Handle:       text(domain.ColumnHandle),
			Faction:      strings.TrimSpace(text(domain.ColumnFaction)),
			Tags:         text(domain.ColumnTags),
			Disposition:  num(domain.ColumnDisposition),
			TwFollowers:  num(domain.ColumnTwFollowers),
			WebsiteViews: num(domain.ColumnWebsiteViews),
			Bio:          text(domain.ColumnBio),
			Image:        strings.TrimSpace(text(domain.ColumnImage)),
			Permissions:  text(domain.ColumnPermissions),
		}
		for j, col := range table.Columns {
			if _, ok := known[col]; ok || col == domain.ColumnReach {
				continue
			}
			if rec.Extra == nil {
				rec.Extra = make(map[string]string)
			}
			rec.Extra[col] = table.Rows[i][j]
		}
		records[i] = rec
	}
	return records
}

func (c *Cleaner) dropMissing(records []domain.Record) ([]domain.Record, int) {
	required := RequiredNumericColumns(c.metric)
	return keep(records, func(r domain.Record) bool {
		for _, col := range required {
			if !numericField(r, col).Valid {
				return false
			}
		}
		return true
	})
}

func (c *Cleaner) dropIncomplete(records []domain.Record) ([]domain.Record, int) {
	return keep(records, func(r domain.Record) bool {
		return r.Name != "" && r.Faction != "" && strings.TrimSpace(r.Tags) != ""
	})
}

func (c *Cleaner) dropNonPositive(records []domain.Record) ([]domain.Record, int) {
	return keep(records, func(r domain.Record) bool {
		return r.Metric(c.metric).Positive()
	})
}

// deriveReach fills Reach where both source metrics are present.
func deriveReach(records []domain.Record) {
	for i := range records {
		r := &records[i]
		if r.TwFollowers.Valid && r.WebsiteViews.Valid {
			r.Reach = domain.NewNumber(r.TwFollowers.Value + r.WebsiteViews.Value)
		} else {
			r.Reach = domain.Missing
		}
	}
}

func numericField(r domain.Record, column string) domain.Number {
	switch column {
	case domain.ColumnDisposition:
		return r.Disposition
	case domain.ColumnTwFollowers:
		return r.TwFollowers
	case domain.ColumnWebsiteViews:
		return r.WebsiteViews
	case domain.ColumnReach:
		return r.Reach
	}
	return domain.Missing
}

// keep filters in place and reports how many records were removed.
func keep(records []domain.Record, pred func(domain.Record) bool) ([]domain.Record, int) {
	kept := records[:0]
	for _, r := range records {
		if pred(r) {
			kept = append(kept, r)
		}
	}
	return kept, len(records) - len(kept)
}
