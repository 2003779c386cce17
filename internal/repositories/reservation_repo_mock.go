package repositories

import (
	"sync"

	"apotek/internal/models"
)

// MockReservationRepository is an in-memory implementation of
// ReservationRepository built on top of the mock order and medicine
// repositories. A single mutex serializes reservations, and stock checks for
// every item pass before any decrement is applied, so the all-or-nothing
// guarantee of the real transaction holds here too.
type MockReservationRepository struct {
	orders    *MockOrderRepository
	medicines *MockMedicineRepository
	mu        sync.Mutex
}

// NewMockReservationRepository creates a new instance of MockReservationRepository.
func NewMockReservationRepository(orders *MockOrderRepository, medicines *MockMedicineRepository) *MockReservationRepository {
	return &MockReservationRepository{
		orders:    orders,
		medicines: medicines,
	}
}

type stagedDecrement struct {
	medicine *models.Medicine
	newStock int
}

// Reserve atomically decrements stock for every item of the order and moves
// the order from pending to processing.
func (r *MockReservationRepository) Reserve(orderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, err := r.orders.GetByID(orderID)
	if err != nil {
		return err
	}

	// Check every item before touching anything. Remaining stock is tracked
	// per medicine so an order listing the same medicine twice is checked
	// against the running balance, not the original stock.
	staged := make([]stagedDecrement, 0, len(order.Items))
	remaining := make(map[string]int, len(order.Items))
	for _, item := range order.Items {
		medicine, err := r.medicines.GetByID(item.MedicineID)
		if err != nil {
			return err
		}
		available, seen := remaining[item.MedicineID]
		if !seen {
			available = medicine.Stock
		}
		if available < item.Quantity {
			return &InsufficientStockError{
				MedicineName: medicine.Name,
				Requested:    item.Quantity,
				Available:    available,
			}
		}
		remaining[item.MedicineID] = available - item.Quantity
		staged = append(staged, stagedDecrement{medicine: medicine, newStock: available - item.Quantity})
	}

	for _, s := range staged {
		s.medicine.Stock = s.newStock
		if err := r.medicines.Update(s.medicine); err != nil {
			return err
		}
	}

	return r.orders.UpdateStatus(orderID, models.OrderStatusProcessing)
}
