package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"dispochart/pkg/contracts/domain"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    domain.Number
		expected string
	}{
		{"missing", domain.Missing, ""},
		{"zero", domain.NewNumber(0), "0"},
		{"whole", domain.NewNumber(1500), "1500"},
		{"negative whole", domain.NewNumber(-3), "-3"},
		{"decimal", domain.NewNumber(4.5), "4.5"},
		{"small decimal", domain.NewNumber(0.001234), "0.001234"},
		{"huge value", domain.NewNumber(1e20), "100000000000000000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatNumber(tt.input))
		})
	}
}

func TestCell(t *testing.T) {
	r := domain.Record{
		Name:        "alice",
		Faction:     "Blue",
		Tags:        "news, sports",
		Disposition: domain.NewNumber(-2.5),
		Reach:       domain.NewNumber(1010),
		Extra:       map[string]string{"Region": "EU"},
	}

	assert.Equal(t, "alice", cell(r, domain.ColumnName))
	assert.Equal(t, "news, sports", cell(r, domain.ColumnTags))
	assert.Equal(t, "-2.5", cell(r, domain.ColumnDisposition))
	assert.Equal(t, "1010", cell(r, domain.ColumnReach))
	assert.Equal(t, "", cell(r, domain.ColumnTwFollowers))
	assert.Equal(t, "EU", cell(r, "Region"))
	assert.Equal(t, "", cell(r, "Unknown"))
}
