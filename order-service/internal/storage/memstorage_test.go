package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adrwal/bookshop/order-service/internal/domain/models"
	storerrros "github.com/adrwal/bookshop/order-service/internal/storage/errors"
)

const testUID = "3a2d07a3-7ccd-4a36-9466-1a1dc2a5e1a2"

func seedOrders(ms *MemStorage) {
	base := time.Date(2024, time.March, 10, 12, 0, 0, 0, time.UTC)
	ms.SaveOrder(models.Order{
		OID:       "11111111-1111-1111-1111-111111111111",
		UID:       testUID,
		Items:     []models.OrderItem{{BID: "b1", Title: "Dune", Price: 12.5, Quantity: 1}},
		Total:     12.5,
		Status:    "created",
		CreatedAt: base,
	})
	ms.SaveOrder(models.Order{
		OID:       "22222222-2222-2222-2222-222222222222",
		UID:       testUID,
		Items:     []models.OrderItem{{BID: "b2", Title: "Go book", Price: 30, Quantity: 2}},
		Total:     60,
		Status:    "created",
		CreatedAt: base.Add(time.Hour),
	})
	ms.SaveOrder(models.Order{
		OID:       "33333333-3333-3333-3333-333333333333",
		UID:       "other-user",
		Items:     []models.OrderItem{{BID: "b3", Title: "Gardening Basics", Price: 8, Quantity: 1}},
		Total:     8,
		Status:    "created",
		CreatedAt: base.Add(2 * time.Hour),
	})
}

func TestGetOrdersByUser(t *testing.T) {
	ms := New()
	seedOrders(ms)

	t.Run("newest first, only own orders", func(t *testing.T) {
		orders, err := ms.GetOrdersByUser(testUID)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "22222222-2222-2222-2222-222222222222", orders[0].OID)
		assert.Equal(t, "11111111-1111-1111-1111-111111111111", orders[1].OID)
	})

	t.Run("no orders", func(t *testing.T) {
		orders, err := ms.GetOrdersByUser("unknown-user")
		require.NoError(t, err)
		assert.Empty(t, orders)
	})
}

func TestGetOrder(t *testing.T) {
	ms := New()
	seedOrders(ms)

	t.Run("success", func(t *testing.T) {
		order, err := ms.GetOrder("11111111-1111-1111-1111-111111111111")
		require.NoError(t, err)
		assert.Equal(t, testUID, order.UID)
		assert.Equal(t, 12.5, order.Total)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ms.GetOrder("99999999-9999-9999-9999-999999999999")
		assert.ErrorIs(t, err, storerrros.ErrOrderNotFound)
	})
}
