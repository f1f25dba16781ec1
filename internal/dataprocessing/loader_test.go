package dataprocessing

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispochart/internal/shared/testutil"
)

func TestLoadWorkbook(t *testing.T) {
	data := testutil.Workbook(t, testutil.StandardHeader,
		[]any{"Alice", "@alice", "Blue", -2.5, "policy, media", "", "", 1200, "", 300},
		[]any{"Bob", "@bob", "Red", 3, "sports", "", "", 50000, "", 0},
	)

	table, err := Load(bytes.NewReader(data), "accounts.xlsx")
	require.NoError(t, err)

	assert.Equal(t, FormatXLSX, table.Format)
	assert.Equal(t, "Accounts", table.Sheet)
	assert.Equal(t, testutil.StandardHeader, table.Columns)
	require.Equal(t, 2, table.Len())

	v, ok := table.Value(0, "Disposition")
	require.True(t, ok)
	assert.Equal(t, "-2.5", v)

	v, ok = table.Value(1, "TwFollowers")
	require.True(t, ok)
	assert.Equal(t, "50000", v)

	_, ok = table.Value(0, "Reach")
	assert.False(t, ok)
}

func TestLoadWorkbookFromDisk(t *testing.T) {
	path := testutil.SaveWorkbook(t, "accounts.xlsx", []string{"Name", "Faction"},
		[]any{"Alice", "Blue"})

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	table, err := Load(f, path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoadCSV(t *testing.T) {
	data := testutil.CSV(t, []string{"Name", "Faction", "Tags"},
		[]string{"Alice", "Blue", "a, b"},
		[]string{"", "", ""},
		[]string{"Bob", "Red"},
	)
	data = append([]byte("\xef\xbb\xbf"), data...)

	table, err := Load(bytes.NewReader(data), "accounts.CSV")
	require.NoError(t, err)

	assert.Equal(t, FormatCSV, table.Format)
	assert.Equal(t, []string{"Name", "Faction", "Tags"}, table.Columns)
	require.Equal(t, 2, table.Len(), "blank rows are skipped")

	v, ok := table.Value(1, "Tags")
	assert.True(t, ok)
	assert.Empty(t, v, "short rows are padded")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		filename string
		wantErr  error
	}{
		{name: "legacy xls", data: []byte("whatever"), filename: "old.xls", wantErr: ErrUnsupportedFormat},
		{name: "pdf", data: []byte("%PDF"), filename: "report.pdf", wantErr: ErrUnsupportedFormat},
		{name: "no extension, not a zip", data: []byte("Name,Faction"), filename: "upload", wantErr: ErrUnsupportedFormat},
		{name: "corrupt xlsx", data: []byte("not a zip"), filename: "broken.xlsx", wantErr: ErrUnreadable},
		{name: "empty csv", data: nil, filename: "empty.csv", wantErr: ErrEmptyWorkbook},
		{name: "blank header csv", data: []byte(",,\n1,2,3\n"), filename: "blank.csv", wantErr: ErrEmptyWorkbook},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(bytes.NewReader(tt.data), tt.filename)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestDetectFormatSniffsZip(t *testing.T) {
	format, err := DetectFormat("", []byte("PK\x03\x04rest"))
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, format)
}

func TestNewRawTableHeaders(t *testing.T) {
	table := NewRawTable([]string{"Name", "", "Name", " Faction"}, [][]string{{"a", "b", "c", "d", "extra"}})

	assert.Equal(t, []string{"Name", "Unnamed: 1", "Name.1", " Faction"}, table.Columns)
	assert.True(t, table.Has(" Faction"))
	assert.False(t, table.Has("Faction"), "header names are not trimmed")

	v, _ := table.Value(0, "Name")
	assert.Equal(t, "a", v, "first duplicate keeps the plain name")
	assert.Len(t, table.Rows[0], 4, "long rows are truncated to the header")
}
