package services

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the order fulfillment core.
var (
	ErrUnauthenticated = errors.New("user is not authenticated")
	ErrEmptyOrder      = errors.New("order has no items")

	// ErrReservationConflict is returned when the reservation transaction
	// kept conflicting through all retry attempts.
	ErrReservationConflict = errors.New("stock reservation failed after repeated conflicts")

	// ErrCancelNotAllowed is returned when a customer tries to cancel an
	// order that already moved past pending.
	ErrCancelNotAllowed = errors.New("order can no longer be cancelled")
)

// ValidationError reports which field of an order draft failed validation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}
