package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/adrwal/bookshop/cart-service/internal/domain/models"
	"github.com/adrwal/bookshop/cart-service/internal/logger"
	storerrros "github.com/adrwal/bookshop/cart-service/internal/storage/errors"
)

type MemStorage struct {
	carts map[string][]models.CartItem
}

func New() *MemStorage {
	return &MemStorage{
		carts: make(map[string][]models.CartItem),
	}
}

func (ms *MemStorage) cart(uid string) models.Cart {
	cart := models.Cart{UID: uid, Items: []models.CartItem{}}
	for _, item := range ms.carts[uid] {
		cart.Items = append(cart.Items, item)
		cart.Total += item.Price * float64(item.Quantity)
	}
	return cart
}

func (ms *MemStorage) GetCart(uid string) (models.Cart, error) {
	return ms.cart(uid), nil
}

func (ms *MemStorage) AddItem(uid string, item models.CartItem) (models.Cart, error) {
	items := ms.carts[uid]
	for i, it := range items {
		if it.BID == item.BID {
			items[i].Quantity += item.Quantity
			return ms.cart(uid), nil
		}
	}
	ms.carts[uid] = append(items, item)
	return ms.cart(uid), nil
}

func (ms *MemStorage) UpdateItemQuantity(uid, bid string, quantity int) (models.Cart, error) {
	items := ms.carts[uid]
	for i, it := range items {
		if it.BID == bid {
			items[i].Quantity = quantity
			return ms.cart(uid), nil
		}
	}
	return models.Cart{}, storerrros.ErrItemNotFound
}

func (ms *MemStorage) RemoveItem(uid, bid string) (models.Cart, error) {
	items := ms.carts[uid]
	for i, it := range items {
		if it.BID == bid {
			ms.carts[uid] = append(items[:i], items[i+1:]...)
			return ms.cart(uid), nil
		}
	}
	return models.Cart{}, storerrros.ErrItemNotFound
}

func (ms *MemStorage) Checkout(uid string) (models.Order, error) {
	log := logger.Get()
	cart := ms.cart(uid)
	if len(cart.Items) == 0 {
		return models.Order{}, storerrros.ErrCartEmpty
	}
	order := models.Order{
		OID:       uuid.New().String(),
		UID:       uid,
		Items:     cart.Items,
		Total:     cart.Total,
		Status:    "created",
		CreatedAt: time.Now().UTC(),
	}
	delete(ms.carts, uid)
	log.Info().Str("oid", order.OID).Str("uid", uid).Msg("cart checked out")
	return order, nil
}
