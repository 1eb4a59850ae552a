package errors

// Common error codes.
const (
	ErrInternal        = "INTERNAL"
	ErrNotFound        = "NOT_FOUND"
	ErrInvalidArgument = "INVALID_ARGUMENT"
	ErrUnauthenticated = "UNAUTHENTICATED"
	ErrUnauthorized    = "UNAUTHORIZED"
	ErrConflict        = "CONFLICT"
	ErrTimeout         = "TIMEOUT"
	ErrNotImplemented  = "NOT_IMPLEMENTED"
)

// Payment and entitlement error codes.
const (
	// ErrProviderUnavailable means the payment provider API could not be
	// reached or returned a transport-level failure. Retryable.
	ErrProviderUnavailable = "PROVIDER_UNAVAILABLE"

	// ErrConflictingState means a terminal order was asked to move to a
	// different terminal state. Indicates a bug or a race; logged at high
	// severity, never mutates.
	ErrConflictingState = "CONFLICTING_STATE"

	ErrOrderNotFound     = "ORDER_NOT_FOUND"
	ErrAccountNotFound   = "ACCOUNT_NOT_FOUND"
	ErrOrderNotConfirmed = "ORDER_NOT_CONFIRMED"
	ErrInvalidPlan       = "INVALID_PLAN"
)
