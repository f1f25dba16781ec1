package domain

// TagMode selects how the tag selection is matched against a row.
type TagMode string

const (
	// TagModeAny keeps rows whose TagList shares at least one tag with the selection.
	TagModeAny TagMode = "any"
	// TagModeExact keeps rows whose raw Tags text equals one of the selected values.
	TagModeExact TagMode = "exact"
)

// EmptyTagPolicy decides what an explicitly empty tag selection means.
type EmptyTagPolicy string

const (
	EmptyTagsShowAll  EmptyTagPolicy = "all"
	EmptyTagsShowNone EmptyTagPolicy = "none"
)

// FilterState is the user's widget selection for one pipeline run.
//
// A nil slice means the widget was never touched and selects every observed
// value. A non-nil empty slice is an explicit "nothing selected".
type FilterState struct {
	Factions  []string       `json:"factions,omitempty" validate:"omitempty,dive,max=256"`
	Tags      []string       `json:"tags,omitempty" validate:"omitempty,dive,max=256"`
	TagMode   TagMode        `json:"tag_mode,omitempty" validate:"omitempty,oneof=any exact"`
	EmptyTags EmptyTagPolicy `json:"empty_tags,omitempty" validate:"omitempty,oneof=all none"`
}

// FilterOptions are the values offered by the multi-select widgets.
type FilterOptions struct {
	Factions []string `json:"factions"`
	Tags     []string `json:"tags"`
}
