package dataprocessing

import (
	"fmt"

	"github.com/RoaringBitmap/roaring"

	"dispochart/pkg/contracts/domain"
)

// FilterIndex holds one bitmap of row positions per faction, per tag and per
// raw Tags cell. A selection is the OR of the chosen values' bitmaps within a
// dimension and the AND across dimensions.
type FilterIndex struct {
	records  []domain.Record
	all      *roaring.Bitmap
	factions map[string]*roaring.Bitmap
	tags     map[string]*roaring.Bitmap
	rawTags  map[string]*roaring.Bitmap
}

// NewFilterIndex indexes cleaned records. TagList must already be populated.
func NewFilterIndex(records []domain.Record) *FilterIndex {
	idx := &FilterIndex{
		records:  records,
		all:      roaring.NewBitmap(),
		factions: make(map[string]*roaring.Bitmap),
		tags:     make(map[string]*roaring.Bitmap),
		rawTags:  make(map[string]*roaring.Bitmap),
	}
	idx.all.AddRange(0, uint64(len(records)))

	for i, r := range records {
		row := uint32(i)
		addTo(idx.factions, r.Faction, row)
		addTo(idx.rawTags, r.Tags, row)
		for _, tag := range r.TagList {
			addTo(idx.tags, tag, row)
		}
	}

	for _, m := range []map[string]*roaring.Bitmap{idx.factions, idx.tags, idx.rawTags} {
		for _, bm := range m {
			bm.RunOptimize()
		}
	}
	return idx
}

func addTo(m map[string]*roaring.Bitmap, key string, row uint32) {
	bm, ok := m[key]
	if !ok {
		bm = roaring.NewBitmap()
		m[key] = bm
	}
	bm.Add(row)
}

// Len is the number of indexed records.
func (idx *FilterIndex) Len() int {
	return len(idx.records)
}

// Match returns the bitmap of row positions selected by state.
func (idx *FilterIndex) Match(state domain.FilterState) (*roaring.Bitmap, error) {
	result := idx.all.Clone()

	if state.Factions != nil {
		result.And(union(idx.factions, state.Factions))
	}
	if result.IsEmpty() {
		return result, nil
	}

	if state.Tags != nil {
		if len(state.Tags) == 0 {
			switch state.EmptyTags {
			case "", domain.EmptyTagsShowAll:
			case domain.EmptyTagsShowNone:
				result.Clear()
			default:
				return nil, fmt.Errorf("unknown empty tag policy %q", state.EmptyTags)
			}
			return result, nil
		}

		switch state.TagMode {
		case "", domain.TagModeAny:
			result.And(union(idx.tags, state.Tags))
		case domain.TagModeExact:
			result.And(union(idx.rawTags, state.Tags))
		default:
			return nil, fmt.Errorf("unknown tag mode %q", state.TagMode)
		}
	}
	return result, nil
}

// Apply returns the selected records in their original order.
func (idx *FilterIndex) Apply(state domain.FilterState) ([]domain.Record, error) {
	bm, err := idx.Match(state)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Record, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		out = append(out, idx.records[it.Next()])
	}
	return out, nil
}

func union(m map[string]*roaring.Bitmap, values []string) *roaring.Bitmap {
	result := roaring.NewBitmap()
	for _, v := range values {
		if bm, ok := m[v]; ok {
			result.Or(bm)
		}
	}
	return result
}

// TagOptions returns the tag choices offered once the faction selection is
// applied, in the form the tag mode matches against.
func (idx *FilterIndex) TagOptions(factions []string, mode domain.TagMode) []string {
	rows := idx.all.Clone()
	if factions != nil {
		rows.And(union(idx.factions, factions))
	}

	source := idx.tags
	if mode == domain.TagModeExact {
		source = idx.rawTags
	}
	seen := make(map[string]struct{})
	for value, bm := range source {
		if rows.Intersects(bm) {
			seen[value] = struct{}{}
		}
	}
	return sortedKeys(seen)
}
