package models

import "time"

// CartItem is a line item with a title/price snapshot taken when the item
// was added; the catalog is referenced by bid only.
type CartItem struct {
	BID      string  `json:"bid"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type Cart struct {
	UID   string     `json:"uid"`
	Items []CartItem `json:"items"`
	Total float64    `json:"total"`
}

// Order is what checkout turns a cart into.
type Order struct {
	OID       string     `json:"oid"`
	UID       string     `json:"uid"`
	Items     []CartItem `json:"items"`
	Total     float64    `json:"total"`
	Status    string     `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
}
