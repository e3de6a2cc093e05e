package model

import "errors"

// Sentinel kinds for model validation errors.
var (
	ErrUnknownPlatform = errors.New("unknown platform")
	ErrEmptyHandle     = errors.New("handle must not be empty")
	ErrInvalidHandle   = errors.New("invalid handle syntax")
)
