// Package exporter writes chart rows back out as CSV.
//
// RowWriter streams records to any io.Writer under a fixed header: the
// known upload columns, the derived Reach column, then any extra columns
// the upload carried, sorted. WriteFile is the file-backed convenience used
// by the CLI; the HTTP export endpoint streams straight to the response.
//
// A UTF-8 byte order mark is written by default so spreadsheet editors pick
// the right encoding.
package exporter
