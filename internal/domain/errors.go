package domain

import "errors"

var (
	// ErrNoDocuments means ingestion produced nothing to index.
	ErrNoDocuments = errors.New("no documents could be ingested")

	// ErrEmptyQuery is returned for blank retrieval queries.
	ErrEmptyQuery = errors.New("empty query")

	// ErrEmptyCompletion is returned when a provider answers with no text.
	ErrEmptyCompletion = errors.New("empty completion")

	// ErrDimensionMismatch means a vector does not fit the index.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrInvalidProfile wraps every user profile validation failure.
	ErrInvalidProfile = errors.New("invalid profile")

	// ErrIndexNotReady is returned when querying an index that was never built or loaded.
	ErrIndexNotReady = errors.New("index not ready")
)
