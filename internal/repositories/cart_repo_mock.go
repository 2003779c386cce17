package repositories

import (
	"sync"
	"time"

	"apotek/internal/models"

	"github.com/google/uuid"
)

// MockCartRepository is an in-memory implementation of CartRepository.
type MockCartRepository struct {
	lines map[string]models.CartLine
	mu    sync.RWMutex
}

// NewMockCartRepository creates a new instance of MockCartRepository.
func NewMockCartRepository() *MockCartRepository {
	return &MockCartRepository{
		lines: make(map[string]models.CartLine),
	}
}

// GetByUser returns all cart lines for one user.
func (r *MockCartRepository) GetByUser(userID string) ([]models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.CartLine
	for _, line := range r.lines {
		if line.UserID == userID {
			list = append(list, line)
		}
	}
	return list, nil
}

// GetLine returns the line for one (user, medicine) pair.
func (r *MockCartRepository) GetLine(userID, medicineID string) (*models.CartLine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, line := range r.lines {
		if line.UserID == userID && line.MedicineID == medicineID {
			l := line
			return &l, nil
		}
	}
	return nil, ErrCartLineNotFound
}

// Create adds a new cart line.
func (r *MockCartRepository) Create(line *models.CartLine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if line.ID == "" {
		line.ID = uuid.New().String()
	}
	line.CreatedAt = time.Now()
	line.UpdatedAt = time.Now()
	r.lines[line.ID] = *line
	return nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (r *MockCartRepository) UpdateQuantity(id string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	line, ok := r.lines[id]
	if !ok {
		return ErrCartLineNotFound
	}
	line.Quantity = quantity
	line.UpdatedAt = time.Now()
	r.lines[id] = line
	return nil
}

// Delete removes a single cart line.
func (r *MockCartRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.lines[id]
	if !ok {
		return ErrCartLineNotFound
	}
	delete(r.lines, id)
	return nil
}

// DeleteLines removes the user's lines for the given medicines.
func (r *MockCartRepository) DeleteLines(userID string, medicineIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	wanted := make(map[string]bool, len(medicineIDs))
	for _, id := range medicineIDs {
		wanted[id] = true
	}
	for id, line := range r.lines {
		if line.UserID == userID && wanted[line.MedicineID] {
			delete(r.lines, id)
		}
	}
	return nil
}
