package services

import "errors"

// Terminal error kinds for one generation request. None are retried; the
// handler maps each to its HTTP status. Credits spent before a failure are
// not refunded.
var (
	// ErrUnsupportedModel means the requested model identifier is not in the
	// allow-list. Maps to HTTP 400.
	ErrUnsupportedModel = errors.New("unsupported model identifier")

	// ErrInsufficientCredits means the user's daily quota is exhausted.
	// Maps to HTTP 402.
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrLedgerUnavailable means the credits store failed during lookup,
	// initialization or deduction. Generation must not proceed. Maps to 500.
	ErrLedgerUnavailable = errors.New("credits ledger unavailable")

	// ErrMalformedReply means the model reply could not be parsed into the
	// expected store schema. No partial data is returned. Maps to 500.
	ErrMalformedReply = errors.New("malformed model reply")
)
