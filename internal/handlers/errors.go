package handlers

import (
	"errors"

	"apotek/internal/repositories"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	var stockErr *repositories.InsufficientStockError
	var validationErr *services.ValidationError

	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrEmptyOrder), errors.As(err, &validationErr):
		return fiber.StatusBadRequest
	case errors.Is(err, repositories.ErrOrderNotFound),
		errors.Is(err, repositories.ErrMedicineNotFound),
		errors.Is(err, repositories.ErrCartLineNotFound),
		errors.Is(err, repositories.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.As(err, &stockErr),
		errors.Is(err, services.ErrReservationConflict),
		errors.Is(err, services.ErrCancelNotAllowed):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
