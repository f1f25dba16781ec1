// Package chart maps cleaned records to a declarative Vega-Lite scatter spec.
// Nothing here renders; the chart spec is handed to whichever front end embeds it.
package chart

import (
	"errors"
	"fmt"

	"dispochart/pkg/contracts/domain"
)

var (
	// ErrNoData is returned when there are no rows to plot.
	ErrNoData = errors.New("no rows to plot")
	// ErrNonPositiveLogValue is returned when a Y value cannot sit on a log axis.
	ErrNonPositiveLogValue = errors.New("non-positive value on logarithmic axis")
	// ErrInvalidDomain is returned for an empty or inverted X domain.
	ErrInvalidDomain = errors.New("invalid disposition domain")
)

const (
	DefaultPointSize     = 60
	DefaultImageSize     = 30
	DefaultNegativeColor = "red"
	DefaultPositiveColor = "blue"
)

// Options controls the scatter layout.
type Options struct {
	XMin          float64
	XMax          float64
	YMetric       domain.ReachMetric
	Marker        domain.MarkerMode
	NegativeColor string
	PositiveColor string
	PointSize     int
	ImageSize     int
	Height        int
	Title         string
}

// DefaultOptions returns the standard -5..+5 red/blue circle layout.
func DefaultOptions() Options {
	return Options{
		XMin:          -5,
		XMax:          5,
		YMetric:       domain.MetricReach,
		Marker:        domain.MarkerCircle,
		NegativeColor: DefaultNegativeColor,
		PositiveColor: DefaultPositiveColor,
		PointSize:     DefaultPointSize,
		ImageSize:     DefaultImageSize,
		Height:        500,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.YMetric == "" {
		o.YMetric = d.YMetric
	}
	if o.Marker == "" {
		o.Marker = d.Marker
	}
	if o.NegativeColor == "" {
		o.NegativeColor = d.NegativeColor
	}
	if o.PositiveColor == "" {
		o.PositiveColor = d.PositiveColor
	}
	if o.PointSize <= 0 {
		o.PointSize = d.PointSize
	}
	if o.ImageSize <= 0 {
		o.ImageSize = d.ImageSize
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.XMin == 0 && o.XMax == 0 {
		o.XMin, o.XMax = d.XMin, d.XMax
	}
	return o
}

// XTitle labels the disposition axis with its ends.
func XTitle(min, max float64) string {
	return fmt.Sprintf("Disposition (Left: %g, Right: %+g)", min, max)
}

// YTitle labels the reach axis.
func YTitle(metric domain.ReachMetric) string {
	return metric.Label() + " (log scale)"
}

// TooltipFields lists the fields shown on hover, in order.
func TooltipFields(metric domain.ReachMetric) []string {
	fields := []string{
		domain.ColumnName, domain.ColumnFaction, domain.ColumnTags,
		domain.ColumnDisposition, string(metric),
	}
	if metric == domain.MetricReach {
		fields = append(fields, domain.ColumnTwFollowers, domain.ColumnWebsiteViews)
	}
	return fields
}

// BuildScatterSpec produces a Disposition (linear X) versus reach (log Y)
// scatter. Records must be non-empty and carry a positive value for the
// chosen metric.
func BuildScatterSpec(records []domain.Record, opts Options) (*domain.ChartSpec, error) {
	opts = opts.withDefaults()
	if len(records) == 0 {
		return nil, ErrNoData
	}
	if !(opts.XMin < opts.XMax) {
		return nil, fmt.Errorf("%w: [%g, %g]", ErrInvalidDomain, opts.XMin, opts.XMax)
	}

	values := make([]map[string]any, 0, len(records))
	for i, r := range records {
		y := r.Metric(opts.YMetric)
		if !y.Positive() {
			return nil, fmt.Errorf("%w: row %d (%s) has %s=%s", ErrNonPositiveLogValue, i, r.Name, opts.YMetric, y)
		}
		if !r.Disposition.Valid {
			return nil, fmt.Errorf("row %d (%s) has no disposition", i, r.Name)
		}
		values = append(values, datum(r))
	}

	spec := &domain.ChartSpec{
		Schema: domain.VegaLiteSchema,
		Title:  opts.Title,
		Width:  "container",
		Height: opts.Height,
		Data:   domain.ChartData{Values: values},
		Encoding: domain.Encoding{
			X: domain.PositionChannel{
				Field: domain.ColumnDisposition,
				Type:  "quantitative",
				Title: XTitle(opts.XMin, opts.XMax),
				Scale: domain.Scale{Domain: []float64{opts.XMin, opts.XMax}},
			},
			Y: domain.PositionChannel{
				Field: string(opts.YMetric),
				Type:  "quantitative",
				Title: YTitle(opts.YMetric),
				Scale: domain.Scale{Type: "log"},
			},
		},
		Params: []domain.ChartParam{{Name: "grid", Select: "interval", Bind: "scales"}},
	}

	for _, f := range TooltipFields(opts.YMetric) {
		typ := "nominal"
		if f == domain.ColumnDisposition || f == domain.ColumnTwFollowers ||
			f == domain.ColumnWebsiteViews || f == domain.ColumnReach {
			typ = "quantitative"
		}
		spec.Encoding.Tooltip = append(spec.Encoding.Tooltip, domain.FieldChannel{Field: f, Type: typ})
	}

	switch opts.Marker {
	case domain.MarkerImage:
		spec.Mark = domain.Mark{Type: "image", Width: opts.ImageSize, Height: opts.ImageSize}
		spec.Encoding.URL = &domain.FieldChannel{Field: domain.ColumnImage, Type: "nominal"}
	case domain.MarkerCircle:
		spec.Mark = domain.Mark{Type: "circle", Size: opts.PointSize}
		spec.Encoding.Color = &domain.ColorChannel{
			Condition: domain.ColorCondition{
				Test:  fmt.Sprintf("datum.%s < 0", domain.ColumnDisposition),
				Value: opts.NegativeColor,
			},
			Value: opts.PositiveColor,
		}
	default:
		return nil, fmt.Errorf("unknown marker mode %q", opts.Marker)
	}

	return spec, nil
}

func datum(r domain.Record) map[string]any {
	d := map[string]any{
		domain.ColumnName:    r.Name,
		domain.ColumnFaction: r.Faction,
		domain.ColumnTags:    r.Tags,
	}
	if r.Handle != "" {
		d[domain.ColumnHandle] = r.Handle
	}
	if r.Image != "" {
		d[domain.ColumnImage] = r.Image
	}
	for col, n := range map[string]domain.Number{
		domain.ColumnDisposition:  r.Disposition,
		domain.ColumnTwFollowers:  r.TwFollowers,
		domain.ColumnWebsiteViews: r.WebsiteViews,
		domain.ColumnReach:        r.Reach,
	} {
		if n.Valid {
			d[col] = n.Value
		}
	}
	return d
}
