package storage

import (
	"sort"

	"github.com/adrwal/bookshop/order-service/internal/domain/models"
	storerrros "github.com/adrwal/bookshop/order-service/internal/storage/errors"
)

type MemStorage struct {
	orderStor map[string]models.Order
}

func New() *MemStorage {
	return &MemStorage{
		orderStor: make(map[string]models.Order),
	}
}

// SaveOrder exists for seeding the in-memory fallback; orders are normally
// written by cart-service at checkout.
func (ms *MemStorage) SaveOrder(order models.Order) {
	ms.orderStor[order.OID] = order
}

func (ms *MemStorage) GetOrdersByUser(uid string) ([]models.Order, error) {
	var orders []models.Order
	for _, order := range ms.orderStor {
		if order.UID == uid {
			orders = append(orders, order)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (ms *MemStorage) GetOrder(oid string) (models.Order, error) {
	order, ok := ms.orderStor[oid]
	if !ok {
		return models.Order{}, storerrros.ErrOrderNotFound
	}
	return order, nil
}
