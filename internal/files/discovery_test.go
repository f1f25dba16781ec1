package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(path, mod, mod))
}

func TestIsSpreadsheet(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"accounts.xlsx", true},
		{"ACCOUNTS.XLSX", true},
		{"macro.xlsm", true},
		{"export.csv", true},
		{"legacy.xls", false},
		{"~$accounts.xlsx", false},
		{".hidden.csv", false},
		{"notes.txt", false},
		{"noext", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSpreadsheet(tt.name))
		})
	}
}

func TestDiscovery_FindSpreadsheets(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "exports")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.csv"), 0o755))

	now := time.Now()
	touch(t, dir, "b.csv", now)
	touch(t, dir, "a.xlsx", now.Add(-time.Hour))
	touch(t, dir, "~$a.xlsx", now)
	touch(t, dir, "readme.md", now)

	d := NewDiscovery(base)
	for _, path := range []string{"exports", dir} {
		files, err := d.FindSpreadsheets(path)
		require.NoError(t, err)
		require.Len(t, files, 2)
		assert.Equal(t, "a.xlsx", files[0].Name)
		assert.Equal(t, filepath.Join(dir, "b.csv"), files[1].Path)
		assert.Equal(t, int64(1), files[1].Size)
	}

	latest, err := d.FindLatestSpreadsheet("exports")
	require.NoError(t, err)
	assert.Equal(t, "b.csv", latest.Name)
}

func TestDiscovery_Errors(t *testing.T) {
	d := NewDiscovery(t.TempDir())

	_, err := d.FindSpreadsheets("missing")
	assert.ErrorContains(t, err, "failed to read directory")

	_, err = d.FindLatestSpreadsheet(".")
	assert.ErrorContains(t, err, "no spreadsheets found")
}
