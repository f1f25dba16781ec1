package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispochart/internal/shared/testutil"
	"dispochart/pkg/contracts/domain"
)

var cleanerHeader = []string{"Name", "Faction", "Tags", "Disposition", "TwFollowers", "WebsiteViews", "Notes"}

func TestCleanerDropsAndDerives(t *testing.T) {
	table := NewRawTable(cleanerHeader, [][]string{
		{"A", "Blue", "x", "-3", "100", "0", "keep"},    // strongly negative, large reach
		{"B", "Blue", "x", "2", "0", "0", ""},           // positive, zero reach
		{"C", "Red", "x", "N/A", "500", "500", ""},      // unparseable disposition
		{"D", "Red", "x", "1", "", "10", ""},            // missing metric source
		{"E", "", "x", "1", "10", "10", ""},             // empty faction
		{"F", "Red", "  ", "1", "10", "10", ""},         // blank tags
		{"G", "Red", "y, z", "4.5", "1e3", "-1000", ""}, // reach zero
		{"H", "Red", "y", "0", "5", "7", ""},            // neutral disposition
	})

	out, err := NewCleaner(CleanerOptions{YMetric: domain.MetricReach}).Clean(table)
	require.NoError(t, err)

	names := make([]string, len(out.Records))
	for i, r := range out.Records {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"A", "H"}, names)

	a := out.Records[0]
	assert.Equal(t, domain.NewNumber(100), a.Reach)
	assert.Equal(t, domain.NewNumber(-3), a.Disposition)
	assert.Equal(t, map[string]string{"Notes": "keep"}, a.Extra)
	assert.Equal(t, domain.NewNumber(12), out.Records[1].Reach)

	assert.Equal(t, domain.CleaningStats{
		InputRows:          8,
		DroppedMissing:     2,
		DroppedIncomplete:  2,
		DroppedNonPositive: 2,
		CleanRows:          2,
	}, out.Stats)

	assert.Equal(t, []string{"Blue", "Red"}, out.Factions)
	assert.Equal(t, []string{"x", "y"}, out.Tags)
}

func TestCleanerInvariants(t *testing.T) {
	rows := [][]string{
		{"a", "F1", "t", "1", "10", "0", ""},
		{"b", "F1", "t", "-1", "0", "0", ""},
		{"c", "F2", "t", "", "1", "1", ""},
		{"d", "F2", "t", "5", "abc", "3", ""},
		{"e", "F2", "t", "-5", "-2", "1", ""},
		{"f", "F3", "t", "2.5", "3", "", ""},
	}

	for _, metric := range []domain.ReachMetric{domain.MetricTwFollowers, domain.MetricWebsiteViews, domain.MetricReach} {
		t.Run(string(metric), func(t *testing.T) {
			out, err := NewCleaner(CleanerOptions{YMetric: metric}).Clean(NewRawTable(cleanerHeader, rows))
			require.NoError(t, err)

			for _, r := range out.Records {
				assert.True(t, r.Disposition.Valid, r.Name)
				assert.True(t, r.Metric(metric).Positive(), r.Name)
				assert.NotEmpty(t, r.Name)
				assert.NotEmpty(t, r.Faction)
				assert.NotEmpty(t, r.TagList)
			}
			s := out.Stats
			assert.Equal(t, s.InputRows, s.DroppedMissing+s.DroppedIncomplete+s.DroppedNonPositive+s.CleanRows)
		})
	}
}

func TestCleanerFollowersOnly(t *testing.T) {
	// The followers-only layout has no WebsiteViews column at all.
	table := NewRawTable([]string{"Name", "Faction", "Tags", "Disposition", "TwFollowers"}, [][]string{
		{"a", "F", "t", "1", "10"},
	})

	out, err := NewCleaner(CleanerOptions{YMetric: domain.MetricTwFollowers}).Clean(table)
	require.NoError(t, err)
	require.Len(t, out.Records, 1)
	assert.False(t, out.Records[0].Reach.Valid)
	assert.False(t, out.Records[0].WebsiteViews.Valid)

	_, err = NewCleaner(CleanerOptions{YMetric: domain.MetricReach}).Clean(table)
	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"WebsiteViews"}, schemaErr.Missing)
}

func TestCleanerEmptyInput(t *testing.T) {
	out, err := NewCleaner(CleanerOptions{}).Clean(NewRawTable(cleanerHeader, nil))
	require.NoError(t, err)
	assert.Empty(t, out.Records)
	assert.Empty(t, out.Factions)
	assert.Empty(t, out.Tags)
}

func TestCleanerLogsStats(t *testing.T) {
	logger, handler := testutil.NewTestLogger(t)
	_, err := NewCleaner(CleanerOptions{Logger: logger}).Clean(NewRawTable(cleanerHeader, [][]string{
		{"a", "F", "t", "1", "1", "1", ""},
	}))
	require.NoError(t, err)

	assert.True(t, handler.ContainsMessage("table cleaned"))
	assert.True(t, handler.ContainsAttr("component", "cleaner"))
	assert.True(t, handler.ContainsAttr("clean_rows", int64(1)))
}
