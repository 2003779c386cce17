package services

import (
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"apotek/internal/models"
	"apotek/internal/repositories"

	"github.com/google/uuid"
)

// maxReservationAttempts bounds the retry loop around conflicting
// reservation transactions.
const maxReservationAttempts = 3

// OrderEventPublisher publishes order lifecycle events. Publishing is
// best-effort: failures are logged and never fail the order itself.
type OrderEventPublisher interface {
	PublishOrderPlaced(order *models.Order) error
	PublishOrderStatusUpdated(orderID string, status models.OrderStatus) error
}

// OrderService owns the order fulfillment core: draft validation, the
// submission orchestration with its atomic stock reservation, and the order
// status lifecycle.
type OrderService struct {
	orderRepo       repositories.OrderRepository
	cartRepo        repositories.CartRepository
	reservationRepo repositories.ReservationRepository
	publisher       OrderEventPublisher
}

// NewOrderService creates a new OrderService.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	cartRepo repositories.CartRepository,
	reservationRepo repositories.ReservationRepository,
	publisher OrderEventPublisher,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		cartRepo:        cartRepo,
		reservationRepo: reservationRepo,
		publisher:       publisher,
	}
}

// SubmitOrder turns a validated draft into a persisted order with its stock
// reserved. The sequence is:
//
//  1. guard the acting user and the item list,
//  2. re-run the draft validator (the UI ran it already, but a client is
//     never trusted),
//  3. persist the order as pending with a server-computed total,
//  4. run the reservation transaction, retrying on write conflicts up to
//     maxReservationAttempts; success flips the order to processing,
//  5. delete the consumed cart lines when the draft came from the cart.
//
// If the reservation fails the pending order is deleted again, so a failed
// submission leaves no order behind and no stock touched.
func (s *OrderService) SubmitOrder(userID string, draft OrderDraft) (*models.Order, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	if len(draft.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if err := ValidateDraft(&draft); err != nil {
		return nil, err
	}

	now := time.Now()
	order := &models.Order{
		ID:            uuid.New().String(),
		InvoiceNumber: newInvoiceNumber(),
		UserID:        userID,
		Items:         draft.Items,
		Status:        models.OrderStatusPending,
		PaymentMethod: draft.PaymentMethod,
		MobileMethod:  draft.MobileMethod,
		BankDetails:   draft.BankDetails,
		Customer:      draft.Customer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	order.Total = order.ComputeTotal()

	if err := s.orderRepo.Create(order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := s.reserveWithRetry(order.ID); err != nil {
		if delErr := s.orderRepo.Delete(order.ID); delErr != nil {
			log.Printf("Failed to clean up order %s after reservation failure: %v", order.ID, delErr)
		}
		return nil, err
	}
	order.Status = models.OrderStatusProcessing

	if draft.FromCart {
		medicineIDs := make([]string, 0, len(order.Items))
		for _, item := range order.Items {
			medicineIDs = append(medicineIDs, item.MedicineID)
		}
		if err := s.cartRepo.DeleteLines(userID, medicineIDs); err != nil {
			// The order is already placed; a stale cart is an annoyance,
			// not a failure.
			log.Printf("Failed to clear cart lines for user %s: %v", userID, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderPlaced(order); err != nil {
			log.Printf("Warning: failed to publish order placed event for order %s: %v", order.ID, err)
		}
	}

	return order, nil
}

// reserveWithRetry runs the reservation transaction, retrying only on write
// conflicts. Any other failure aborts immediately.
func (s *OrderService) reserveWithRetry(orderID string) error {
	var err error
	for attempt := 0; attempt < maxReservationAttempts; attempt++ {
		err = s.reservationRepo.Reserve(orderID)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrConflict) {
			return err
		}
		log.Printf("Reservation conflict for order %s (attempt %d/%d)", orderID, attempt+1, maxReservationAttempts)
	}
	return ErrReservationConflict
}

// CancelOrder is the customer-initiated cancel. It is only allowed while the
// order is still pending; once stock has been reserved the customer path is
// closed. Cancelling a pending order touches no stock because none was
// decremented yet.
func (s *OrderService) CancelOrder(userID, orderID string) error {
	order, err := s.orderRepo.GetByID(orderID)
	if err != nil {
		return err
	}
	if order.UserID != userID {
		// Don't reveal other users' orders.
		return repositories.ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return ErrCancelNotAllowed
	}
	// Guarded write: a reservation may flip the order to processing between
	// the read above and this point, and a reserved order must not be
	// silently cancelled without its stock coming back.
	err = s.orderRepo.UpdateStatusFrom(orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	if errors.Is(err, repositories.ErrConflict) {
		return ErrCancelNotAllowed
	}
	if err != nil {
		return fmt.Errorf("failed to cancel order %s: %w", orderID, err)
	}
	s.publishStatus(orderID, models.OrderStatusCancelled)
	return nil
}

// UpdateOrderStatus is the operator path: a direct status write to any of the
// five statuses. It has no stock side effects; stock was decremented when the
// order entered processing, and moving away from processing does not restock.
func (s *OrderService) UpdateOrderStatus(id string, status models.OrderStatus) error {
	if !models.ValidOrderStatuses[status] {
		return &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", status)}
	}
	if err := s.orderRepo.UpdateStatus(id, status); err != nil {
		return fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	s.publishStatus(id, status)
	return nil
}

func (s *OrderService) publishStatus(orderID string, status models.OrderStatus) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderStatusUpdated(orderID, status); err != nil {
		log.Printf("Warning: failed to publish status event for order %s: %v", orderID, err)
	}
}

// GetAllOrders retrieves all orders (operator view).
func (s *OrderService) GetAllOrders() ([]models.Order, error) {
	return s.orderRepo.GetAll()
}

// GetOrdersForUser retrieves the orders placed by one user.
func (s *OrderService) GetOrdersForUser(userID string) ([]models.Order, error) {
	return s.orderRepo.GetByUser(userID)
}

// GetOrderByID retrieves a single order by its ID.
func (s *OrderService) GetOrderByID(id string) (*models.Order, error) {
	return s.orderRepo.GetByID(id)
}

// newInvoiceNumber builds the human-facing order identifier. The millisecond
// timestamp plus a small random suffix is not collision-free under high
// concurrency; the unique index on invoice_number is the backstop.
func newInvoiceNumber() string {
	return fmt.Sprintf("INV-%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}
