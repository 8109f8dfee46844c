package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Validation errors: rejected before any state mutation.
	ErrInvalidAmount  = errors.New("donation amount must be positive")
	ErrInvalidAddress = errors.New("donor address must not be empty")
	ErrInvalidAward   = errors.New("xp award must not be negative")

	// ErrInvalidCampaign rejects campaign creation with missing fields.
	ErrInvalidCampaign = errors.New("campaign title and owner are required")

	// Lookup errors
	ErrDonorNotFound    = errors.New("donor not found")
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrConcurrencyConflict signals an optimistic-lock retry; the store
	// retries a bounded number of times before surfacing it.
	ErrConcurrencyConflict = errors.New("donor record was modified concurrently")
)
