// Package dataprocessing turns an uploaded spreadsheet into the rows a
// scatter chart can plot.
//
// # Architecture
//
// A run is a straight line of stateless stages:
//
//  1. Load: read .xlsx/.xlsm (first sheet, via excelize) or .csv into a
//     RawTable of header names and string cells
//  2. ValidateColumns: fail with a *SchemaError naming every missing column
//  3. Cleaner: coerce numbers, drop rows missing text fields, drop rows
//     missing metric inputs, derive Reach, drop non-positive Y values
//  4. FilterIndex: roaring bitmaps per faction, per tag and per raw Tags
//     cell, combined with OR inside a widget and AND across widgets
//  5. chart.BuildScatterSpec: the Vega-Lite spec, or NoDataWarning when
//     nothing is left
//
// Process runs stages 2 to 5 on a loaded table; Select stops after 4 and
// returns every matching row, which is what the CSV export uses.
//
// # Selections
//
// A nil slice in domain.FilterState means the widget was never touched and
// everything passes. An empty, non-nil faction slice selects nothing. An
// empty, non-nil tag slice defers to the EmptyTags policy.
//
// # Usage
//
//	res, err := dataprocessing.Run(file, "accounts.xlsx",
//	    domain.FilterState{Factions: []string{"Blue"}},
//	    dataprocessing.Options{YMetric: domain.MetricReach})
//	if err != nil {
//	    var schemaErr *dataprocessing.SchemaError
//	    if errors.As(err, &schemaErr) {
//	        // schemaErr.Missing lists the absent columns
//	    }
//	    return err
//	}
//
// Cleaning statistics always satisfy
// DroppedMissing + DroppedIncomplete + DroppedNonPositive + CleanRows == InputRows.
package dataprocessing
