package repositories

import (
	"errors"
	"fmt"

	"apotek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

// NewGORMCartRepository creates a new instance of GORMCartRepository.
func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{
		db: db,
	}
}

// GetByUser retrieves all cart lines for one user.
func (r *GORMCartRepository) GetByUser(userID string) ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := r.db.Find(&lines, "user_id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get cart lines for user %s: %w", userID, err)
	}
	return lines, nil
}

// GetLine retrieves the line for one (user, medicine) pair.
func (r *GORMCartRepository) GetLine(userID, medicineID string) (*models.CartLine, error) {
	var line models.CartLine
	if err := r.db.First(&line, "user_id = ? AND medicine_id = ?", userID, medicineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartLineNotFound
		}
		return nil, fmt.Errorf("failed to get cart line: %w", err)
	}
	return &line, nil
}

// Create adds a new cart line.
func (r *GORMCartRepository) Create(line *models.CartLine) error {
	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	if err := r.db.Create(line).Error; err != nil {
		return fmt.Errorf("failed to create cart line: %w", err)
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (r *GORMCartRepository) UpdateQuantity(id string, quantity int) error {
	res := r.db.Model(&models.CartLine{}).Where("id = ?", id).Update("quantity", quantity)
	if res.Error != nil {
		return fmt.Errorf("failed to update cart line %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// Delete removes a single cart line.
func (r *GORMCartRepository) Delete(id string) error {
	res := r.db.Delete(&models.CartLine{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete cart line %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrCartLineNotFound
	}
	return nil
}

// DeleteLines removes the user's lines for the given medicines.
func (r *GORMCartRepository) DeleteLines(userID string, medicineIDs []string) error {
	if len(medicineIDs) == 0 {
		return nil
	}
	if err := r.db.Where("user_id = ? AND medicine_id IN ?", userID, medicineIDs).
		Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to delete cart lines for user %s: %w", userID, err)
	}
	return nil
}
