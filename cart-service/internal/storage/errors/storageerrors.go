package storerrros

import "errors"

var (
	ErrItemNotFound = errors.New("item not found in cart")
	ErrCartEmpty    = errors.New("cart is empty")
)
