package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownStage indicates a stage name the pipeline does not know.
	ErrUnknownStage = errors.New("unknown stage")

	// ErrMalformedResponse indicates an external system returned a
	// body the typed client could not validate.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrAborted indicates the operator declined a stage confirmation.
	ErrAborted = errors.New("aborted by operator")

	// ErrRateLimited indicates the source store's API quota was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
