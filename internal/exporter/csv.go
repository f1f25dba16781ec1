package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"dispochart/pkg/contracts/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
	Logger    *slog.Logger
}

// DefaultWriteOptions writes a BOM.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{BOMPrefix: true}
}

// Header returns the column order for records: the known columns, Reach,
// then the union of extra columns in name order.
func Header(records []domain.Record) []string {
	header := append([]string{}, domain.KnownColumns...)
	header = append(header, domain.ColumnReach)

	extra := make(map[string]struct{})
	for _, r := range records {
		for col := range r.Extra {
			extra[col] = struct{}{}
		}
	}
	names := make([]string, 0, len(extra))
	for col := range extra {
		names = append(names, col)
	}
	sort.Strings(names)
	return append(header, names...)
}

// RowWriter streams records as CSV rows.
type RowWriter struct {
	writer *csv.Writer
	header []string
	rows   int
}

// NewRowWriter writes the optional BOM and the header row.
func NewRowWriter(w io.Writer, header []string, opts WriteOptions) (*RowWriter, error) {
	if opts.BOMPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return nil, fmt.Errorf("failed to write BOM: %w", err)
		}
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write headers: %w", err)
	}
	return &RowWriter{writer: cw, header: header}, nil
}

// WriteRecord writes a single record to the stream
func (rw *RowWriter) WriteRecord(r domain.Record) error {
	row := make([]string, len(rw.header))
	for i, col := range rw.header {
		row[i] = cell(r, col)
	}
	if err := rw.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write record %d: %w", rw.rows, err)
	}
	rw.rows++
	return nil
}

// Rows is the number of records written so far.
func (rw *RowWriter) Rows() int {
	return rw.rows
}

// Flush writes buffered rows to the underlying writer.
func (rw *RowWriter) Flush() error {
	rw.writer.Flush()
	return rw.writer.Error()
}

// WriteRecords writes records under their Header.
func WriteRecords(w io.Writer, records []domain.Record, opts WriteOptions) error {
	rw, err := NewRowWriter(w, Header(records), opts)
	if err != nil {
		return err
	}
	for _, r := range records {
		if err := rw.WriteRecord(r); err != nil {
			return err
		}
	}
	return rw.Flush()
}

// WriteFile writes records to path, creating parent directories.
func WriteFile(path string, records []domain.Record, opts WriteOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Writing CSV file",
		slog.String("file_path", path),
		slog.Int("record_count", len(records)))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := WriteRecords(file, records, opts); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
