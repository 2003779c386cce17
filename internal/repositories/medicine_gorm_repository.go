package repositories

import (
	"errors"
	"fmt"
	"strings"

	"apotek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMMedicineRepository is a GORM implementation of MedicineRepository.
type GORMMedicineRepository struct {
	db *gorm.DB
}

// NewGORMMedicineRepository creates a new instance of GORMMedicineRepository.
func NewGORMMedicineRepository(db *gorm.DB) *GORMMedicineRepository {
	return &GORMMedicineRepository{
		db: db,
	}
}

// GetAll retrieves all medicines from the database.
func (r *GORMMedicineRepository) GetAll() ([]models.Medicine, error) {
	var medicines []models.Medicine
	if err := r.db.Find(&medicines).Error; err != nil {
		return nil, fmt.Errorf("failed to get all medicines: %w", err)
	}
	return medicines, nil
}

// GetByID retrieves a single medicine by its ID from the database.
func (r *GORMMedicineRepository) GetByID(id string) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.db.First(&medicine, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMedicineNotFound
		}
		return nil, fmt.Errorf("failed to get medicine by ID %s: %w", id, err)
	}
	return &medicine, nil
}

// GetByCompany retrieves all medicines belonging to one company storefront.
func (r *GORMMedicineRepository) GetByCompany(companyID string) ([]models.Medicine, error) {
	var medicines []models.Medicine
	if err := r.db.Find(&medicines, "company_id = ?", companyID).Error; err != nil {
		return nil, fmt.Errorf("failed to get medicines for company %s: %w", companyID, err)
	}
	return medicines, nil
}

// SearchByName retrieves medicines whose name contains the query, case-insensitively.
func (r *GORMMedicineRepository) SearchByName(query string) ([]models.Medicine, error) {
	var medicines []models.Medicine
	pattern := "%" + strings.ToLower(query) + "%"
	if err := r.db.Where("LOWER(name) LIKE ?", pattern).Find(&medicines).Error; err != nil {
		return nil, fmt.Errorf("failed to search medicines: %w", err)
	}
	return medicines, nil
}

// Create creates a new medicine in the database.
func (r *GORMMedicineRepository) Create(medicine *models.Medicine) error {
	if medicine.ID == "" {
		medicine.ID = uuid.New().String()
	}
	if err := r.db.Create(medicine).Error; err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}

// Update updates an existing medicine in the database.
func (r *GORMMedicineRepository) Update(medicine *models.Medicine) error {
	res := r.db.Save(medicine) // Save will update all fields, including zero values
	if res.Error != nil {
		return fmt.Errorf("failed to update medicine: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// GORM's Save doesn't return ErrRecordNotFound if no rows were
		// affected by an update, so we check RowsAffected.
		return ErrMedicineNotFound
	}
	return nil
}

// Delete deletes a medicine by its ID from the database.
func (r *GORMMedicineRepository) Delete(id string) error {
	res := r.db.Delete(&models.Medicine{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete medicine: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrMedicineNotFound
	}
	return nil
}
