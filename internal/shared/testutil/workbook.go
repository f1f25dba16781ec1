package testutil

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
)

// StandardHeader is a full upload header row.
var StandardHeader = []string{
	"Name", "Handle", "Faction", "Disposition", "Tags", "Bio", "Image",
	"TwFollowers", "Permissions", "WebsiteViews",
}

// Workbook builds an xlsx upload in memory. Cells are written as strings
// unless they are numbers, mirroring what a spreadsheet editor produces.
func Workbook(t *testing.T, header []string, rows ...[]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	sheet := "Accounts"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("rename sheet: %v", err)
	}

	headerCells := make([]any, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerCells); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			t.Fatalf("write row %d: %v", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

// SaveWorkbook writes a Workbook to a temp dir and returns its path.
func SaveWorkbook(t *testing.T, name string, header []string, rows ...[]any) string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(Workbook(t, header, rows...)))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	path := filepath.Join(t.TempDir(), name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

// CSV encodes rows as a CSV upload.
func CSV(t *testing.T, header []string, rows ...[]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("write rows: %v", err)
	}
	return buf.Bytes()
}
