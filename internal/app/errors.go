package service

import "errors"

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	// ErrAllPlatformsFailed means every live fetch in a fan-out failed, so
	// there is nothing to analyze. Partial failures do not raise it.
	ErrAllPlatformsFailed = errors.New("all platform fetches failed")

	// ErrUnsupportedPlatform means no fetcher is registered for the
	// requested platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)
