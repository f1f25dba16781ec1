package exporter

import (
	"math"
	"strconv"

	"dispochart/pkg/contracts/domain"
)

// cell returns the text written for one column of a record.
func cell(r domain.Record, col string) string {
	switch col {
	case domain.ColumnName:
		return r.Name
	case domain.ColumnHandle:
		return r.Handle
	case domain.ColumnFaction:
		return r.Faction
	case domain.ColumnTags:
		return r.Tags
	case domain.ColumnBio:
		return r.Bio
	case domain.ColumnImage:
		return r.Image
	case domain.ColumnPermissions:
		return r.Permissions
	case domain.ColumnDisposition:
		return formatNumber(r.Disposition)
	case domain.ColumnTwFollowers:
		return formatNumber(r.TwFollowers)
	case domain.ColumnWebsiteViews:
		return formatNumber(r.WebsiteViews)
	case domain.ColumnReach:
		return formatNumber(r.Reach)
	}
	return r.Extra[col]
}

// formatNumber writes whole numbers without a decimal point and leaves
// missing values empty.
func formatNumber(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	if math.Abs(n.Value) < 1e15 && n.Value == math.Trunc(n.Value) {
		return strconv.FormatInt(int64(n.Value), 10)
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
