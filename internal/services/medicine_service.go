package services

import (
	"apotek/internal/models"
	"apotek/internal/repositories"
)

// MedicineService handles business logic for the medicine catalog and the
// per-company inventory.
type MedicineService struct {
	repo repositories.MedicineRepository
}

// NewMedicineService creates a new MedicineService.
func NewMedicineService(repo repositories.MedicineRepository) *MedicineService {
	return &MedicineService{
		repo: repo,
	}
}

// GetAllMedicines retrieves the full catalog.
func (s *MedicineService) GetAllMedicines() ([]models.Medicine, error) {
	return s.repo.GetAll()
}

// GetMedicineByID retrieves a single medicine by its ID.
func (s *MedicineService) GetMedicineByID(id string) (*models.Medicine, error) {
	return s.repo.GetByID(id)
}

// GetCompanyInventory retrieves the medicines owned by one company.
func (s *MedicineService) GetCompanyInventory(companyID string) ([]models.Medicine, error) {
	return s.repo.GetByCompany(companyID)
}

// SearchMedicines retrieves medicines matching a name query.
func (s *MedicineService) SearchMedicines(query string) ([]models.Medicine, error) {
	if query == "" {
		return s.repo.GetAll()
	}
	return s.repo.SearchByName(query)
}

// CreateMedicine adds a medicine to a company's inventory.
func (s *MedicineService) CreateMedicine(medicine *models.Medicine) error {
	return s.repo.Create(medicine)
}

// UpdateMedicine updates an existing medicine. Direct stock edits go through
// here; they serialize with customer purchases on the same rows the
// reservation transaction locks.
func (s *MedicineService) UpdateMedicine(medicine *models.Medicine) error {
	if medicine.Stock < 0 {
		return &ValidationError{Field: "stock", Reason: "must not be negative"}
	}
	return s.repo.Update(medicine)
}

// DeleteMedicine removes a medicine by its ID.
func (s *MedicineService) DeleteMedicine(id string) error {
	return s.repo.Delete(id)
}
