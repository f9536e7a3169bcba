package service

import "errors"

// Sentinel errors for the tracker service
var (
	ErrCorrelationMismatch = errors.New("import belongs to another user")
	ErrNoPendingImport     = errors.New("no pending import for user")
	ErrUnknownSource       = errors.New("unknown source label")
)
