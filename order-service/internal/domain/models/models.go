package models

import "time"

type OrderItem struct {
	BID      string  `json:"bid"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Order is immutable after checkout except for status transitions.
type Order struct {
	OID       string      `json:"oid"`
	UID       string      `json:"uid"`
	Items     []OrderItem `json:"items"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
}
