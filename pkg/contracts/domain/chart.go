package domain

// MarkerMode toggles between uniform markers and per-row images.
type MarkerMode string

const (
	MarkerCircle MarkerMode = "circle"
	MarkerImage  MarkerMode = "image"
)

// VegaLiteSchema is the grammar version the chart specs target.
const VegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// ChartSpec is a declarative scatter description in Vega-Lite form.
type ChartSpec struct {
	Schema   string       `json:"$schema"`
	Title    string       `json:"title,omitempty"`
	Width    string       `json:"width,omitempty"`
	Height   int          `json:"height,omitempty"`
	Data     ChartData    `json:"data"`
	Mark     Mark         `json:"mark"`
	Encoding Encoding     `json:"encoding"`
	Params   []ChartParam `json:"params,omitempty"`
}

// ChartData holds inline row values.
type ChartData struct {
	Values []map[string]any `json:"values"`
}

// Mark describes the glyph drawn per row.
type Mark struct {
	Type    string  `json:"type"`
	Size    int     `json:"size,omitempty"`
	Width   int     `json:"width,omitempty"`
	Height  int     `json:"height,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Encoding maps fields to visual channels.
type Encoding struct {
	X       PositionChannel `json:"x"`
	Y       PositionChannel `json:"y"`
	Color   *ColorChannel   `json:"color,omitempty"`
	URL     *FieldChannel   `json:"url,omitempty"`
	Tooltip []FieldChannel  `json:"tooltip,omitempty"`
}

// PositionChannel is an axis encoding.
type PositionChannel struct {
	Field string `json:"field"`
	Type  string `json:"type"`
	Title string `json:"title,omitempty"`
	Scale Scale  `json:"scale"`
}

// Scale configures an axis scale.
type Scale struct {
	Type   string    `json:"type,omitempty"`
	Domain []float64 `json:"domain,omitempty"`
}

// FieldChannel references a data field.
type FieldChannel struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

// ColorChannel is a binary threshold colour rule.
type ColorChannel struct {
	Condition ColorCondition `json:"condition"`
	Value     string         `json:"value"`
}

// ColorCondition is the value used when Test holds.
type ColorCondition struct {
	Test  string `json:"test"`
	Value string `json:"value"`
}

// ChartParam declares interactive selections.
type ChartParam struct {
	Name   string `json:"name"`
	Select string `json:"select"`
	Bind   string `json:"bind"`
}
