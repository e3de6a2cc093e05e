package session

import "errors"

// Sentinel kinds for session-store errors.
var (
	ErrNoHandles     = errors.New("no handles registered")
	ErrUnknownHandle = errors.New("handle not registered")
)
