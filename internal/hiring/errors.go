package hiring

import "errors"

// Sentinel errors, one per precondition class. Every failed operation
// returns exactly one of these (possibly wrapped with detail) and leaves
// negotiation state untouched.
var (
	// ErrNotEligible covers the eligibility preconditions: the candidate is
	// not a registered graduate, or the employer has no live stake.
	ErrNotEligible = errors.New("not eligible")

	// ErrAlreadyResolved covers terminal facts: the candidate is hired, or
	// the quote instance was already approved or rejected.
	ErrAlreadyResolved = errors.New("already resolved")

	// ErrQuotePending is returned when a new quote would displace a live,
	// unresolved one. One negotiation at a time.
	ErrQuotePending = errors.New("candidate has a pending quote")

	// ErrInvalidAmount rejects zero quote amounts.
	ErrInvalidAmount = errors.New("quote amount must be positive")

	// ErrUnauthorized is returned when the caller may not act on the quote:
	// a different employer issued it, or the candidate has not consented.
	ErrUnauthorized = errors.New("caller is not authorized for this quote")

	// ErrNoQuote is returned when an operation presumes a quote that does
	// not exist.
	ErrNoQuote = errors.New("no quote exists for candidate")
)
