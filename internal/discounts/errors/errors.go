package errors

import "errors"

// Enumerated rejection reasons. These travel to the caller verbatim in
// the error details, so they are stable identifiers, not messages.
const (
	ReasonNotFound        = "NOT_FOUND"
	ReasonInactive        = "INACTIVE"
	ReasonExpired         = "EXPIRED"
	ReasonBelowMinimum    = "BELOW_MINIMUM"
	ReasonAlreadyRedeemed = "ALREADY_REDEEMED"
)

var (
	ErrNotFound = errors.New("discount code not found")

	ErrUsageExists = errors.New("usage already recorded for booking reference")
)
