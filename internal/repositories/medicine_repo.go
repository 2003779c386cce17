package repositories

import (
	"apotek/internal/models"
)

// MedicineRepository defines the interface for medicine catalog data access.
type MedicineRepository interface {
	GetAll() ([]models.Medicine, error)
	GetByID(id string) (*models.Medicine, error)
	GetByCompany(companyID string) ([]models.Medicine, error)
	SearchByName(query string) ([]models.Medicine, error)
	Create(medicine *models.Medicine) error
	Update(medicine *models.Medicine) error
	Delete(id string) error
}
