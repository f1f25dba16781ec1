package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispochart/internal/dataprocessing"
)

func TestFileValidator_ValidateUpload(t *testing.T) {
	v := NewFileValidator(nil, 1024)

	tests := []struct {
		name     string
		filename string
		size     int64
		wantErr  error
	}{
		{"xlsx", "accounts.xlsx", 100, nil},
		{"upper case csv", "ACCOUNTS.CSV", 100, nil},
		{"macro workbook", "accounts.xlsm", 100, nil},
		{"no extension", "blob", 100, nil},
		{"legacy xls", "accounts.xls", 100, dataprocessing.ErrUnsupportedFormat},
		{"text file", "notes.txt", 100, dataprocessing.ErrUnsupportedFormat},
		{"lock file", "~$accounts.xlsx", 100, dataprocessing.ErrUnsupportedFormat},
		{"empty", "accounts.csv", 0, ErrEmptyUpload},
		{"too large", "accounts.csv", 2048, ErrTooLarge},
		{"unknown size", "accounts.csv", -1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpload(tt.filename, tt.size)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFileValidator_NoSizeLimit(t *testing.T) {
	v := NewFileValidator(nil, 0)
	assert.NoError(t, v.ValidateUpload("big.xlsx", 1<<40))
}

func TestFileValidator_ValidateFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "accounts.csv")
	require.NoError(t, os.WriteFile(good, []byte("Name\nA\n"), 0o644))
	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	tests := []struct {
		name          string
		path          string
		errorContains string
	}{
		{"valid", good, ""},
		{"missing", filepath.Join(dir, "nope.csv"), "does not exist"},
		{"directory", dir, "is a directory"},
		{"empty", empty, "upload is empty"},
	}

	v := NewFileValidator(nil, 1<<20)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateFile(tt.path)
			if tt.errorContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil, 0)
	dir := filepath.Join(t.TempDir(), "out", "charts")

	require.NoError(t, v.ValidateOutputDirectory(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "probe file is removed")
}
