package errors

import "errors"

var (
	ErrTransactionNotFound = errors.New("credit transaction not found")

	ErrAlreadyCompleted = errors.New("credit transaction already completed")

	ErrInvalidAmount = errors.New("credit amount must be non-zero")
)
