package domain

import "errors"

var (
	// ErrStoreUnavailable indicates a connection or query failure against the
	// report store. It is fatal for the requested view; no stale fallback.
	ErrStoreUnavailable = errors.New("report store unavailable")

	// ErrInvalidRange indicates a trend request whose start date is after its
	// end date. Rejected before any store access.
	ErrInvalidRange = errors.New("invalid date range: start is after end")

	// ErrNoSelection indicates a trend request with an empty dam set. The
	// aggregation never silently runs over all dams.
	ErrNoSelection = errors.New("no dams selected")
)
