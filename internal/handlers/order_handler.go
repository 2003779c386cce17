package handlers

import (
	"fmt"
	"log"

	"apotek/internal/middleware"
	"apotek/internal/models"
	"apotek/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	orderService *services.OrderService
	cartService  *services.CartService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService, cartService *services.CartService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		cartService:  cartService,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	operatorOnly := middleware.RoleRequired(string(models.RoleCompany), string(models.RoleAdmin))

	orderRoutes := router.Group("/orders", authRequired)
	orderRoutes.Get("/", h.HandleGetMyOrders)
	orderRoutes.Post("/", h.HandleSubmitOrder)
	orderRoutes.Get("/all", operatorOnly, h.HandleGetAllOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/:id/cancel", h.HandleCancelOrder)
	orderRoutes.Patch("/:id/status", operatorOnly, h.HandleUpdateOrderStatus)
}

// SubmitOrderRequest represents the request body for placing an order.
// When FromCart is true and Items is empty, the items are built from the
// user's current cart.
type SubmitOrderRequest struct {
	Items         []models.OrderItem    `json:"items"`
	PaymentMethod models.PaymentMethod  `json:"payment_method"`
	MobileMethod  models.MobileProvider `json:"mobile_method"`
	BankDetails   models.BankDetails    `json:"bank_details"`
	Customer      models.CustomerInfo   `json:"customer_info"`
	FromCart      bool                  `json:"from_cart"`
}

// HandleSubmitOrder places an order for the authenticated user.
func (h *OrderHandler) HandleSubmitOrder(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var req SubmitOrderRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing order request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	items := req.Items
	if req.FromCart && len(items) == 0 {
		cartItems, err := h.cartService.DraftFromCart(userID)
		if err != nil {
			log.Printf("Error building draft from cart for user %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not read cart",
				"error":   err.Error(),
			})
		}
		items = cartItems
	}

	order, err := h.orderService.SubmitOrder(userID, services.OrderDraft{
		Items:         items,
		PaymentMethod: req.PaymentMethod,
		MobileMethod:  req.MobileMethod,
		BankDetails:   req.BankDetails,
		Customer:      req.Customer,
		FromCart:      req.FromCart,
	})
	if err != nil {
		log.Printf("Error submitting order for user %s: %v", userID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not place order",
			"error":   err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetMyOrders retrieves the authenticated user's orders.
func (h *OrderHandler) HandleGetMyOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetOrdersForUser(middleware.UserID(c))
	if err != nil {
		log.Printf("Error getting orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetAllOrders retrieves every order (operator view).
func (h *OrderHandler) HandleGetAllOrders(c *fiber.Ctx) error {
	orders, err := h.orderService.GetAllOrders()
	if err != nil {
		log.Printf("Error getting all orders: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve orders",
			"error":   err.Error(),
		})
	}
	return c.JSON(orders)
}

// HandleGetOrderByID retrieves a single order. Customers only see their own
// orders; operators see any.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	orderID := c.Params("id")
	order, err := h.orderService.GetOrderByID(orderID)
	if err != nil {
		log.Printf("Error getting order by ID %s: %v", orderID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not retrieve order",
			"error":   err.Error(),
		})
	}

	role := middleware.Role(c)
	if order.UserID != middleware.UserID(c) &&
		role != string(models.RoleCompany) && role != string(models.RoleAdmin) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Order with ID %s not found", orderID),
		})
	}

	// The stored total is never trusted blindly for display.
	order.Total = order.ComputeTotal()
	return c.JSON(order)
}

// HandleCancelOrder is the customer self-service cancel, allowed only while
// the order is still pending.
func (h *OrderHandler) HandleCancelOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	if err := h.orderService.CancelOrder(middleware.UserID(c), orderID); err != nil {
		log.Printf("Error cancelling order %s: %v", orderID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not cancel order",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s cancelled", orderID),
	})
}

// UpdateStatusRequest represents the request body for an operator status change.
type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

// HandleUpdateOrderStatus lets an operator move an order to any status.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing status update body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for status update",
			"error":   err.Error(),
		})
	}

	if req.Status == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Status is required for order status update.",
		})
	}

	if err := h.orderService.UpdateOrderStatus(orderID, req.Status); err != nil {
		log.Printf("Error updating order status for order %s: %v", orderID, err)
		return c.Status(statusForError(err)).JSON(fiber.Map{
			"message": "Could not update order status",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s status updated successfully to %s", orderID, req.Status),
	})
}
