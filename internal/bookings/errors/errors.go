package errors

import "errors"

var (
	ErrBookingNotFound           = errors.New("booking not found")
	ErrDuplicatePaymentReference = errors.New("payment reference already used")
	ErrCleanerNotFound           = errors.New("cleaner not found")
)
