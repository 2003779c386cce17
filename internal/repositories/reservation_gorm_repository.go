package repositories

import (
	"errors"
	"fmt"
	"strings"

	"apotek/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMReservationRepository is a GORM implementation of ReservationRepository.
// It relies on row-level locks (SELECT ... FOR UPDATE) so that two orders
// competing for the same medicine serialize on the stock check-and-decrement.
type GORMReservationRepository struct {
	db *gorm.DB
}

// NewGORMReservationRepository creates a new instance of GORMReservationRepository.
func NewGORMReservationRepository(db *gorm.DB) *GORMReservationRepository {
	return &GORMReservationRepository{
		db: db,
	}
}

// Reserve atomically decrements stock for every item of the order and moves
// the order from pending to processing. The whole transaction rolls back on
// the first failing item.
func (r *GORMReservationRepository) Reserve(orderID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return fmt.Errorf("failed to load order %s: %w", orderID, err)
		}

		for _, item := range order.Items {
			var medicine models.Medicine
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&medicine, "id = ?", item.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMedicineNotFound
				}
				return fmt.Errorf("failed to lock medicine %s: %w", item.MedicineID, err)
			}

			if medicine.Stock < item.Quantity {
				return &InsufficientStockError{
					MedicineName: medicine.Name,
					Requested:    item.Quantity,
					Available:    medicine.Stock,
				}
			}

			if err := tx.Model(&models.Medicine{}).Where("id = ?", medicine.ID).
				Update("stock", gorm.Expr("stock - ?", item.Quantity)).Error; err != nil {
				return fmt.Errorf("failed to decrement stock for %s: %w", medicine.ID, err)
			}
		}

		if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
			Update("status", models.OrderStatusProcessing).Error; err != nil {
			return fmt.Errorf("failed to update order %s status: %w", orderID, err)
		}
		return nil
	})

	if err != nil && isSerializationFailure(err) {
		return ErrConflict
	}
	return err
}

// isSerializationFailure reports whether the database aborted the transaction
// because of concurrent access, which is safe to retry.
func isSerializationFailure(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLSTATE 40001") || // postgres serialization failure
		strings.Contains(msg, "SQLSTATE 40P01") || // postgres deadlock detected
		strings.Contains(msg, "database is locked") // sqlite busy
}
