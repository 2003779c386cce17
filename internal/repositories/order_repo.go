package repositories

import (
	"apotek/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	GetAll() ([]models.Order, error)
	GetByUser(userID string) ([]models.Order, error)
	GetByID(id string) (*models.Order, error)
	Create(order *models.Order) error
	UpdateStatus(id string, status models.OrderStatus) error
	// UpdateStatusFrom writes the status only while the current status still
	// matches expected. ErrConflict reports that another writer moved the
	// order on in the meantime.
	UpdateStatusFrom(id string, expected, next models.OrderStatus) error
	// Delete exists only for cleanup of a pending order whose stock
	// reservation failed. Placed orders are never deleted.
	Delete(id string) error
}
