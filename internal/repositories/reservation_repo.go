package repositories

// ReservationRepository executes the stock reservation for an order as one
// all-or-nothing unit: verify and decrement the stock of every medicine the
// order references, then flip the order's status from pending to processing.
//
// Reserve returns ErrOrderNotFound, ErrMedicineNotFound, an
// *InsufficientStockError, or ErrConflict when a concurrent writer touched
// one of the rows (callers retry with a fresh attempt). On any error no
// partial decrements remain visible.
type ReservationRepository interface {
	Reserve(orderID string) error
}
