package errors

import "errors"

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUpstreamUnavailable signals an unreachable backing store.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
