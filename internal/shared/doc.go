// Package shared holds code used across packages that belongs to no single
// layer. It should not contain business logic.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//   - BufferedSlogHandler and NewTestLogger for asserting on log output
//   - Workbook, SaveWorkbook and CSV for building uploads in memory
//   - StandardHeader, a complete upload header row
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.Workbook(t, testutil.StandardHeader,
//	        []any{"Ann", "@ann", "Blue", -3, "media", "", "", 100, "", 0})
//	    // ...
//	    testutil.AssertLogContains(t, logs, slog.LevelInfo, "chart generated")
//	}
package shared
