package services

import (
	"errors"
	"fmt"

	"apotek/internal/models"
	"apotek/internal/repositories"
)

// DuplicatePolicy decides what adding an already-carted medicine does.
type DuplicatePolicy int

const (
	// DuplicateIgnore keeps the existing line untouched. This is the
	// default: a second tap on "add to cart" is treated as accidental.
	DuplicateIgnore DuplicatePolicy = iota
	// DuplicateIncrement adds the new quantity to the existing line.
	DuplicateIncrement
)

// CartService handles business logic for per-user cart lines.
type CartService struct {
	cartRepo     repositories.CartRepository
	medicineRepo repositories.MedicineRepository
	onDuplicate  DuplicatePolicy
}

// NewCartService creates a new CartService with the given duplicate-add policy.
func NewCartService(cartRepo repositories.CartRepository, medicineRepo repositories.MedicineRepository, onDuplicate DuplicatePolicy) *CartService {
	return &CartService{
		cartRepo:     cartRepo,
		medicineRepo: medicineRepo,
		onDuplicate:  onDuplicate,
	}
}

// ListCart returns the user's staged cart lines.
func (s *CartService) ListCart(userID string) ([]models.CartLine, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	return s.cartRepo.GetByUser(userID)
}

// AddToCart stages one medicine for purchase. Name, price and image are
// snapshotted from the catalog at add time. A line already present for the
// same medicine is handled per the configured DuplicatePolicy.
func (s *CartService) AddToCart(userID, medicineID string, quantity int) (*models.CartLine, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if quantity < 1 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}

	medicine, err := s.medicineRepo.GetByID(medicineID)
	if err != nil {
		return nil, err
	}

	existing, err := s.cartRepo.GetLine(userID, medicineID)
	if err != nil && !errors.Is(err, repositories.ErrCartLineNotFound) {
		return nil, err
	}
	if existing != nil {
		switch s.onDuplicate {
		case DuplicateIncrement:
			existing.Quantity += quantity
			if err := s.cartRepo.UpdateQuantity(existing.ID, existing.Quantity); err != nil {
				return nil, fmt.Errorf("failed to increment cart line: %w", err)
			}
			return existing, nil
		default:
			return existing, nil
		}
	}

	line := &models.CartLine{
		UserID:     userID,
		MedicineID: medicine.ID,
		Name:       medicine.Name,
		Price:      medicine.Price,
		Image:      medicine.Image,
		Quantity:   quantity,
	}
	if err := s.cartRepo.Create(line); err != nil {
		return nil, fmt.Errorf("failed to add to cart: %w", err)
	}
	return line, nil
}

// UpdateQuantity sets the quantity of an existing cart line.
func (s *CartService) UpdateQuantity(userID, lineID string, quantity int) error {
	if quantity < 1 {
		return &ValidationError{Field: "quantity", Reason: "must be at least 1"}
	}
	if err := s.ownsLine(userID, lineID); err != nil {
		return err
	}
	return s.cartRepo.UpdateQuantity(lineID, quantity)
}

// RemoveLine deletes one cart line.
func (s *CartService) RemoveLine(userID, lineID string) error {
	if err := s.ownsLine(userID, lineID); err != nil {
		return err
	}
	return s.cartRepo.Delete(lineID)
}

func (s *CartService) ownsLine(userID, lineID string) error {
	lines, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if line.ID == lineID {
			return nil
		}
	}
	return repositories.ErrCartLineNotFound
}

// DraftFromCart builds an order draft from the user's current cart lines.
func (s *CartService) DraftFromCart(userID string) ([]models.OrderItem, error) {
	lines, err := s.cartRepo.GetByUser(userID)
	if err != nil {
		return nil, err
	}
	items := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, models.OrderItem{
			MedicineID: line.MedicineID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			Price:      line.Price,
		})
	}
	return items, nil
}
