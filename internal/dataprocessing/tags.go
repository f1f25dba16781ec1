package dataprocessing

import (
	"sort"
	"strings"

	"dispochart/pkg/contracts/domain"
)

// SplitTags splits a comma-separated Tags cell into trimmed, non-empty
// tokens. Duplicates within the cell are kept.
func SplitTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// UniqueTags is the sorted set of every tag across the records.
func UniqueTags(records []domain.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		for _, tag := range r.TagList {
			seen[tag] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// UniqueRawTags is the sorted set of distinct Tags cells, used by the exact
// match mode.
func UniqueRawTags(records []domain.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Tags] = struct{}{}
	}
	return sortedKeys(seen)
}

// UniqueFactions is the sorted set of Faction values.
func UniqueFactions(records []domain.Record) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		seen[r.Faction] = struct{}{}
	}
	return sortedKeys(seen)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
