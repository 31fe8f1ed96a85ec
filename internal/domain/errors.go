package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrRateLimited  = errors.New("rate limited")
	ErrUnauthorized = errors.New("unauthorized")
	ErrLockHeld     = errors.New("lock already held")
	ErrUnknownSport = errors.New("unknown sport")

	// ErrUpstreamUnavailable marks a platform fetch that failed for a cycle.
	// The cycle continues with an empty market list for that platform.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	// ErrUnparseableRecord marks a raw record that failed price or entity
	// extraction. Such records are dropped, never surfaced from a cycle.
	ErrUnparseableRecord = errors.New("unparseable record")
	// ErrNoCounterpart marks a market with no cross-platform match.
	ErrNoCounterpart = errors.New("no counterpart")
	// ErrInvalidConfiguration is returned before any fetch when caller
	// supplied parameters are out of range.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
