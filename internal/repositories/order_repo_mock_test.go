package repositories_test

import (
	"testing"

	"apotek/internal/models"
	"apotek/internal/repositories"

	"github.com/stretchr/testify/assert"
)

func TestMockOrder_UpdateStatusFrom(t *testing.T) {
	orders := repositories.NewMockOrderRepository()

	order := &models.Order{UserID: "u1", Status: models.OrderStatusPending}
	assert.NoError(t, orders.Create(order))

	// Matching expectation: the write goes through.
	assert.NoError(t, orders.UpdateStatusFrom(order.ID, models.OrderStatusPending, models.OrderStatusCancelled))
	stored, err := orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)

	// Stale expectation: the order moved on, the write must not apply.
	err = orders.UpdateStatusFrom(order.ID, models.OrderStatusPending, models.OrderStatusShipped)
	assert.ErrorIs(t, err, repositories.ErrConflict)
	stored, err = orders.GetByID(order.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, stored.Status)

	assert.ErrorIs(t,
		orders.UpdateStatusFrom("missing", models.OrderStatusPending, models.OrderStatusCancelled),
		repositories.ErrOrderNotFound)
}
