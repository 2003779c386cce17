package repositories

import (
	"strings"
	"sync"

	"apotek/internal/models"

	"github.com/google/uuid"
)

// MockMedicineRepository is an in-memory implementation of MedicineRepository.
type MockMedicineRepository struct {
	medicines map[string]models.Medicine
	mu        sync.RWMutex
}

// NewMockMedicineRepository creates a new instance of MockMedicineRepository.
func NewMockMedicineRepository() *MockMedicineRepository {
	return &MockMedicineRepository{
		medicines: make(map[string]models.Medicine),
	}
}

// GetAll returns all medicines.
func (r *MockMedicineRepository) GetAll() ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.Medicine, 0, len(r.medicines))
	for _, m := range r.medicines {
		list = append(list, m)
	}
	return list, nil
}

// GetByID returns a medicine by its ID.
func (r *MockMedicineRepository) GetByID(id string) (*models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	medicine, ok := r.medicines[id]
	if !ok {
		return nil, ErrMedicineNotFound
	}
	return &medicine, nil
}

// GetByCompany returns all medicines owned by the given company.
func (r *MockMedicineRepository) GetByCompany(companyID string) ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var list []models.Medicine
	for _, m := range r.medicines {
		if m.CompanyID == companyID {
			list = append(list, m)
		}
	}
	return list, nil
}

// SearchByName returns medicines whose name contains the query, case-insensitively.
func (r *MockMedicineRepository) SearchByName(query string) ([]models.Medicine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	var list []models.Medicine
	for _, m := range r.medicines {
		if strings.Contains(strings.ToLower(m.Name), q) {
			list = append(list, m)
		}
	}
	return list, nil
}

// Create adds a new medicine.
func (r *MockMedicineRepository) Create(medicine *models.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if medicine.ID == "" {
		medicine.ID = uuid.New().String()
	}
	r.medicines[medicine.ID] = *medicine
	return nil
}

// Update modifies an existing medicine.
func (r *MockMedicineRepository) Update(medicine *models.Medicine) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.medicines[medicine.ID]
	if !ok {
		return ErrMedicineNotFound
	}
	r.medicines[medicine.ID] = *medicine
	return nil
}

// Delete removes a medicine by its ID.
func (r *MockMedicineRepository) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.medicines[id]
	if !ok {
		return ErrMedicineNotFound
	}
	delete(r.medicines, id)
	return nil
}
