// Package files finds spreadsheets on disk for batch runs.
//
// Discovery resolves relative directories against a base path and returns
// the files the loader can read, skipping editor lock files ("~$name.xlsx")
// and hidden files.
//
//	discovery := files.NewDiscovery(".")
//	sheets, err := discovery.FindSpreadsheets("exports")
package files
