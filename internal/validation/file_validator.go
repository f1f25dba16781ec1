package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"dispochart/internal/dataprocessing"
)

// ErrTooLarge is returned for uploads over the configured byte limit.
var ErrTooLarge = errors.New("upload exceeds size limit")

// ErrEmptyUpload is returned for zero-byte uploads.
var ErrEmptyUpload = errors.New("upload is empty")

// FileValidator checks spreadsheets before they reach the loader, both for
// HTTP uploads and for files named on the command line.
type FileValidator struct {
	logger   *slog.Logger
	maxBytes int64
}

// NewFileValidator creates a new file validator. maxBytes <= 0 disables the
// size check.
func NewFileValidator(logger *slog.Logger, maxBytes int64) *FileValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileValidator{
		logger:   logger.With(slog.String("component", "file_validator")),
		maxBytes: maxBytes,
	}
}

// ValidateUpload checks the name and declared size of an uploaded file.
func (v *FileValidator) ValidateUpload(filename string, size int64) error {
	if err := v.ValidateSpreadsheetName(filename); err != nil {
		return err
	}
	if size == 0 {
		v.logger.Warn("Empty upload", slog.String("file", filename))
		return fmt.Errorf("%s: %w", filename, ErrEmptyUpload)
	}
	if v.maxBytes > 0 && size > v.maxBytes {
		v.logger.Warn("Upload too large",
			slog.String("file", filename),
			slog.Int64("size", size),
			slog.Int64("limit", v.maxBytes))
		return fmt.Errorf("%s is %d bytes, limit is %d: %w", filename, size, v.maxBytes, ErrTooLarge)
	}
	return nil
}

// ValidateSpreadsheetName accepts the extensions the loader can parse and
// refuses Office lock files. A name without an extension is left to content
// sniffing.
func (v *FileValidator) ValidateSpreadsheetName(filename string) error {
	base := filepath.Base(filename)
	if strings.HasPrefix(base, "~$") {
		v.logger.Warn("Rejecting temporary Excel file", slog.String("file", filename))
		return fmt.Errorf("%s is a temporary Excel lock file: %w", base, dataprocessing.ErrUnsupportedFormat)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext == "" || slices.Contains(dataprocessing.SupportedExtensions, ext) {
		return nil
	}
	v.logger.Warn("Unsupported spreadsheet extension",
		slog.String("file", filename),
		slog.String("extension", ext))
	return fmt.Errorf("%s (extension %s): %w", base, ext, dataprocessing.ErrUnsupportedFormat)
}

// ValidateFile checks that a local spreadsheet exists, is a regular readable
// file and passes the upload checks.
func (v *FileValidator) ValidateFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		v.logger.Error("File does not exist", slog.String("file", path))
		return fmt.Errorf("file %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat file %s: %w", path, err)
	}
	if info.IsDir() {
		v.logger.Error("Path is a directory, not a file", slog.String("path", path))
		return fmt.Errorf("%s is a directory, not a file", path)
	}

	file, err := os.Open(path)
	if err != nil {
		v.logger.Error("File is not readable",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return fmt.Errorf("file %s is not readable: %w", path, err)
	}
	file.Close()

	if err := v.ValidateUpload(path, info.Size()); err != nil {
		return err
	}
	v.logger.Debug("File validated",
		slog.String("file", path),
		slog.Int64("size", info.Size()))
	return nil
}

// ValidateOutputDirectory ensures the directory for a written chart spec
// exists and is writable.
func (v *FileValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		v.logger.Error("Failed to create output directory",
			slog.String("directory", dir),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe, err := os.CreateTemp(dir, ".write_test")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	os.Remove(probe.Name())
	return nil
}
