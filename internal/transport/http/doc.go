// Package http implements the HTTP handlers for the chart service.
//
// Handlers stay thin: they parse multipart uploads and form fields, validate
// them, call services.ChartService and render the result. Errors go through
// errors.ErrorHandler and leave as RFC 7807 problem documents.
//
// # Routes
//
//	POST /api/v1/charts           upload + widget state -> preview, chart, options, stats
//	POST /api/v1/charts/validate  upload -> header report, no cleaning
//	GET  /api/v1/charts/schema    required and optional columns
//	GET  /                        upload page rendering the chart with vega-embed
//
// # Selections
//
// The factions and tags fields may be repeated. Leaving a field out means the
// widget was never touched and everything is selected. Sending it with only
// an empty value is an explicit empty selection.
//
// Successful responses use the envelope
//
//	{"status": "success", "data": ...}
package http
