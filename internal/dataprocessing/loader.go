package dataprocessing

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are not xlsx/xlsm/csv.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")
	// ErrEmptyWorkbook is returned when the first sheet has no header row.
	ErrEmptyWorkbook = errors.New("spreadsheet has no header row")
	// ErrUnreadable wraps parser failures on files that claimed a known format.
	ErrUnreadable = errors.New("spreadsheet could not be read")
)

var zipMagic = []byte("PK\x03\x04")

// Format is the container type of an upload.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// SupportedExtensions are the file suffixes the loader accepts.
var SupportedExtensions = []string{".xlsx", ".xlsm", ".csv"}

// RawTable is the untyped grid read from row 1 onward of the first sheet.
type RawTable struct {
	Columns []string
	Rows    [][]string
	Sheet   string
	Format  Format

	index map[string]int
}

// NewRawTable builds a table from a header and data rows. Short rows are
// padded and long rows truncated to the header width.
func NewRawTable(header []string, rows [][]string) *RawTable {
	t := &RawTable{
		Columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
	}
	seen := make(map[string]int, len(header))
	for i, name := range header {
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, dup := seen[name]; dup {
			seen[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n+1)
		} else {
			seen[name] = 0
		}
		t.Columns[i] = name
		t.index[name] = i
	}

	t.Rows = make([][]string, 0, len(rows))
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		padded := make([]string, len(header))
		copy(padded, row)
		t.Rows = append(t.Rows, padded)
	}
	return t
}

// Has reports whether a column with exactly this name exists.
func (t *RawTable) Has(column string) bool {
	_, ok := t.index[column]
	return ok
}

// Value returns the cell for a row and column name.
func (t *RawTable) Value(row int, column string) (string, bool) {
	i, ok := t.index[column]
	if !ok || row < 0 || row >= len(t.Rows) {
		return "", false
	}
	return t.Rows[row][i], true
}

// Len is the number of data rows.
func (t *RawTable) Len() int {
	return len(t.Rows)
}

// DetectFormat picks a parser from the filename, falling back to content
// sniffing when the name has no recognised extension.
func DetectFormat(filename string, head []byte) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	case ".xls":
		return "", fmt.Errorf("%w: legacy .xls workbooks must be saved as .xlsx", ErrUnsupportedFormat)
	case "":
		if bytes.HasPrefix(head, zipMagic) {
			return FormatXLSX, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// Load reads an uploaded spreadsheet. Only the first sheet is used and row 1
// is the header.
func Load(r io.Reader, filename string) (*RawTable, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	format, err := DetectFormat(filename, data)
	if err != nil {
		return nil, err
	}

	var table *RawTable
	switch format {
	case FormatXLSX:
		table, err = loadWorkbook(data)
	case FormatCSV:
		table, err = loadCSV(data)
	}
	if err != nil {
		return nil, err
	}
	table.Format = format
	return table, nil
}

func loadWorkbook(data []byte) (*RawTable, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyWorkbook
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrUnreadable, sheets[0], err)
	}
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, ErrEmptyWorkbook
	}

	table := NewRawTable(rows[0], rows[1:])
	table.Sheet = sheets[0]
	return table, nil
}

func loadCSV(data []byte) (*RawTable, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(rows) == 0 || blankRow(rows[0]) {
		return nil, ErrEmptyWorkbook
	}
	return NewRawTable(rows[0], rows[1:]), nil
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
