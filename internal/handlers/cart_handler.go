package handlers

import (
	"log"

	"apotek/internal/middleware"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service *services.CartService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service: service,
	}
}

// RegisterRoutes registers the cart routes; all of them require a token.
func (h *CartHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	cartRoutes := router.Group("/cart", authRequired)
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Patch("/:id", h.HandleUpdateQuantity)
	cartRoutes.Delete("/:id", h.HandleRemoveLine)
}

// HandleGetCart lists the user's cart lines.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	lines, err := h.service.ListCart(middleware.UserID(c))
	if err != nil {
		log.Printf("Error listing cart: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not retrieve cart",
			"error":   err.Error(),
		})
	}
	return c.JSON(lines)
}

// AddToCartRequest represents the request body for adding a medicine to the cart.
type AddToCartRequest struct {
	MedicineID string `json:"medicine_id"`
	Quantity   int    `json:"quantity"`
}

// HandleAddToCart stages a medicine in the user's cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var req AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	line, err := h.service.AddToCart(middleware.UserID(c), req.MedicineID, req.Quantity)
	if err != nil {
		log.Printf("Error adding to cart: %v", err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not add to cart",
			"error":   err.Error(),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// UpdateQuantityRequest represents the request body for a quantity change.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// HandleUpdateQuantity changes the quantity of one cart line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	var req UpdateQuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.service.UpdateQuantity(middleware.UserID(c), c.Params("id"), req.Quantity); err != nil {
		log.Printf("Error updating cart line %s: %v", c.Params("id"), err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not update cart line",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart line updated",
	})
}

// HandleRemoveLine deletes one cart line.
func (h *CartHandler) HandleRemoveLine(c *fiber.Ctx) error {
	if err := h.service.RemoveLine(middleware.UserID(c), c.Params("id")); err != nil {
		log.Printf("Error removing cart line %s: %v", c.Params("id"), err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not remove cart line",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Cart line removed",
	})
}
