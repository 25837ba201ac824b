package models

import "errors"

// Sentinel errors for the analysis and retrieval surfaces. Callers match with
// errors.Is; the HTTP layer maps them to structured error codes.
var (
	// ErrEmptyInput means no question or article was given. User-correctable.
	ErrEmptyInput = errors.New("empty input")

	// ErrExternalService means the embedding or generation collaborator
	// failed or was unreachable. Recoverable by degrading to
	// general-knowledge-only where a fallback exists.
	ErrExternalService = errors.New("external service failure")

	// ErrIndexUnavailable means no corpus is loaded. Retrieval yields no
	// results; not fatal.
	ErrIndexUnavailable = errors.New("document index unavailable")

	// ErrIndexBuild means an index build produced no usable chunks.
	// Retrieval stays disabled until a rebuild succeeds.
	ErrIndexBuild = errors.New("index build produced no chunks")
)
