package domain

import (
	"encoding/json"
	"math"
	"strconv"
)

// Column names as they appear in row 1 of an uploaded spreadsheet.
const (
	ColumnName         = "Name"
	ColumnHandle       = "Handle"
	ColumnFaction      = "Faction"
	ColumnDisposition  = "Disposition"
	ColumnTags         = "Tags"
	ColumnBio          = "Bio"
	ColumnImage        = "Image"
	ColumnTwFollowers  = "TwFollowers"
	ColumnPermissions  = "Permissions"
	ColumnWebsiteViews = "WebsiteViews"

	// ColumnReach is derived, never read from the upload.
	ColumnReach = "Reach"
)

// KnownColumns lists every column the record type has a field for, in the
// order the upload form documents them.
var KnownColumns = []string{
	ColumnName, ColumnHandle, ColumnFaction, ColumnDisposition, ColumnTags,
	ColumnBio, ColumnImage, ColumnTwFollowers, ColumnPermissions, ColumnWebsiteViews,
}

// Number is a numeric cell that may be missing.
type Number struct {
	Value float64
	Valid bool
}

// NewNumber returns a valid Number.
func NewNumber(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Missing is the zero Number.
var Missing = Number{}

// Positive reports whether n is present and strictly greater than zero.
func (n Number) Positive() bool {
	return n.Valid && n.Value > 0
}

// String formats the value the way it would be written back to a cell.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// MarshalJSON encodes missing values as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid || math.IsNaN(n.Value) || math.IsInf(n.Value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON accepts a number or null.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Missing
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NewNumber(v)
	return nil
}

// Record is one entity row after cleaning.
type Record struct {
	Name         string            `json:"Name"`
	Handle       string            `json:"Handle,omitempty"`
	Faction      string            `json:"Faction"`
	Tags         string            `json:"Tags"`
	TagList      []string          `json:"TagList"`
	Disposition  Number            `json:"Disposition"`
	TwFollowers  Number            `json:"TwFollowers"`
	WebsiteViews Number            `json:"WebsiteViews"`
	Reach        Number            `json:"Reach"`
	Bio          string            `json:"Bio,omitempty"`
	Image        string            `json:"Image,omitempty"`
	Permissions  string            `json:"Permissions,omitempty"`
	Extra        map[string]string `json:"Extra,omitempty"`
}

// Metric returns the numeric field for a reach metric.
func (r Record) Metric(m ReachMetric) Number {
	switch m {
	case MetricTwFollowers:
		return r.TwFollowers
	case MetricWebsiteViews:
		return r.WebsiteViews
	case MetricReach:
		return r.Reach
	}
	return Missing
}

// ReachMetric selects the column plotted on the logarithmic Y axis.
type ReachMetric string

const (
	MetricTwFollowers  ReachMetric = ColumnTwFollowers
	MetricWebsiteViews ReachMetric = ColumnWebsiteViews
	MetricReach        ReachMetric = ColumnReach
)

// ParseReachMetric accepts the column name or a lowercase alias.
func ParseReachMetric(s string) (ReachMetric, bool) {
	switch s {
	case "", "reach", ColumnReach:
		return MetricReach, true
	case "twfollowers", "followers", ColumnTwFollowers:
		return MetricTwFollowers, true
	case "websiteviews", "views", ColumnWebsiteViews:
		return MetricWebsiteViews, true
	}
	return "", false
}

// Label is the human axis title for the metric.
func (m ReachMetric) Label() string {
	switch m {
	case MetricTwFollowers:
		return "Twitter Followers"
	case MetricWebsiteViews:
		return "Website Views"
	case MetricReach:
		return "Reach (Followers + Views)"
	}
	return string(m)
}

// SourceColumns are the uploaded numeric columns the metric depends on.
func (m ReachMetric) SourceColumns() []string {
	switch m {
	case MetricTwFollowers:
		return []string{ColumnTwFollowers}
	case MetricWebsiteViews:
		return []string{ColumnWebsiteViews}
	default:
		return []string{ColumnTwFollowers, ColumnWebsiteViews}
	}
}
