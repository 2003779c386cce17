package repositories

import (
	"apotek/internal/models"
)

// CartRepository defines the interface for cart line data access.
type CartRepository interface {
	GetByUser(userID string) ([]models.CartLine, error)
	GetLine(userID, medicineID string) (*models.CartLine, error)
	Create(line *models.CartLine) error
	UpdateQuantity(id string, quantity int) error
	Delete(id string) error
	// DeleteLines removes the user's lines for the given medicines. Used to
	// clear the consumed part of a cart after a successful order.
	DeleteLines(userID string, medicineIDs []string) error
}
