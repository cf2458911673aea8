package onboarding

import "errors"

// Engine errors. Every error returned by the engine wraps exactly one of
// these, so callers branch with errors.Is.
var (
	// ErrValidation rejects an advance locally; the flow state is untouched.
	ErrValidation = errors.New("response required")

	// ErrPersistence means the write-through to the response store failed,
	// timed out or was abandoned. Nothing was applied; advancing again retries.
	ErrPersistence = errors.New("failed to save response")

	// ErrGeneration means the passport generator failed or returned a
	// malformed document. The flow stays exhausted and completion can be retried.
	ErrGeneration = errors.New("failed to create passport")

	// ErrNotFound means there is no current question, which only happens when
	// no questions were loaded.
	ErrNotFound = errors.New("no questions available")
)
