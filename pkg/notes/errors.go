package notes

import "errors"

// Error kinds returned by Store. Match them with errors.Is; the underlying
// medium error stays wrapped alongside.
var (
	// ErrCorruptState means a stored collection is not valid serialized form.
	ErrCorruptState = errors.New("stored notes are corrupt")
	// ErrReadFailure means the medium could not be read at all.
	ErrReadFailure = errors.New("notes storage read failed")
	// ErrWriteFailure means the medium rejected a write (quota, permissions, unavailable).
	ErrWriteFailure = errors.New("notes storage write failed")
	// ErrInvalidArgument flags a malformed value handed in by the caller.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrDocumentNotFound is returned by GetDocument only; deleting a missing id is a no-op.
	ErrDocumentNotFound = errors.New("document not found")
)
