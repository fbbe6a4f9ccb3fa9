package domain

import "github.com/google/uuid"

// Product is a catalog entry used only to price payments. The wallet side
// treats the catalog as read-only; an inactive product is indistinguishable
// from a missing one.
type Product struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Price  int64     `json:"price"` // Smallest unit, always positive
	Active bool      `json:"active"`
}
