package domain

import "time"

// DefaultHolderName marks a card that was auto-provisioned from a device
// sighting and has not been named by a top-up yet.
const DefaultHolderName = "New User"

// Card is a prepaid wallet record keyed by the physical card identifier.
// Balance is held in the smallest currency unit and never goes negative;
// the wallet service enforces the invariant before commit and the schema
// backs it with a CHECK constraint.
type Card struct {
	UID        string    `json:"card_uid"`
	HolderName string    `json:"holder_name"`
	Balance    int64     `json:"balance"`
	LastTopup  int64     `json:"last_topup"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsProvisional reports whether the card still carries the auto-provisioned
// placeholder name. Only provisional cards are renamed on top-up.
func (c *Card) IsProvisional() bool {
	return c.HolderName == DefaultHolderName
}

// CanAfford reports whether the card balance covers the given amount.
func (c *Card) CanAfford(amount int64) bool {
	return c.Balance >= amount
}
