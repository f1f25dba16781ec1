package services

import "errors"

// Chart service errors
var (
	// ErrInvalidRequest wraps request values the service cannot interpret.
	ErrInvalidRequest = errors.New("invalid chart request")
	// ErrNoUpload is returned when Generate or Validate gets no reader.
	ErrNoUpload = errors.New("no spreadsheet uploaded")
)
