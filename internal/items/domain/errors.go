package domain

import "errors"

// Classified failures every operation reports. Callers match with
// errors.Is; the working copy is guaranteed unchanged after any failed
// mutation.
var (
	// ErrClassificationFailed means free text could not be parsed into a
	// structured item. No partial item is created.
	ErrClassificationFailed = errors.New("input could not be classified")

	// ErrNotFound means the mutation target id is absent from the store.
	ErrNotFound = errors.New("item not found")

	// ErrTransport means the backend was unreachable or answered
	// malformed. The caller may retry; the core never retries itself.
	ErrTransport = errors.New("item service unreachable")

	// ErrInvalidView means the projector received malformed input, such
	// as an unrecognized horizon token.
	ErrInvalidView = errors.New("invalid view descriptor")
)
