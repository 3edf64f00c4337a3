package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Price accepts both a JSON number and a numeric string ("9.99"),
// the two shapes clients submit prices in.
type Price float64

func (p *Price) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*p = Price(f)
	return nil
}

// Stock accepts both a JSON integer and an integer string ("5").
type Stock int

func (st *Stock) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer value %q", s)
	}
	*st = Stock(n)
	return nil
}

type Book struct {
	BID         string  `json:"bid,omitempty"`
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Category    string  `json:"category" validate:"required"`
	Description string  `json:"description" validate:"required"`
}

// BookUpdate carries a partial update; nil fields are left untouched.
type BookUpdate struct {
	Title       *string
	Author      *string
	Price       *float64
	Stock       *int
	Category    *string
	Description *string
}
