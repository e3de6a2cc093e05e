package platform

import "errors"

// Sentinel kinds for adapter errors. Callers branch on these with
// errors.Is: a missing handle is terminal, an unavailable platform is
// transient and may be retried or omitted from best-effort aggregation.
var (
	ErrHandleNotFound = errors.New("handle not found")
	ErrUnavailable    = errors.New("platform unavailable")
)
