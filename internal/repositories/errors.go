package repositories

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by all repository implementations.
var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrMedicineNotFound = errors.New("medicine not found")
	ErrCartLineNotFound = errors.New("cart line not found")
	ErrUserNotFound     = errors.New("user not found")

	// ErrConflict signals a concurrent-modification failure: the reservation
	// transaction was aborted by the database, or a guarded status write
	// found the row already changed. Callers decide whether to retry.
	ErrConflict = errors.New("reservation conflict")
)

// InsufficientStockError is returned by the reservation transaction when a
// medicine cannot cover the requested quantity. The whole transaction is
// rolled back; no partial decrements apply.
type InsufficientStockError struct {
	MedicineName string
	Requested    int
	Available    int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s (requested: %d, available: %d)",
		e.MedicineName, e.Requested, e.Available)
}
