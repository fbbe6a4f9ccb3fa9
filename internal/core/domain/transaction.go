package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the kind of balance movement.
type TransactionType string

const (
	TransactionTypeTopup   TransactionType = "TOPUP"
	TransactionTypePayment TransactionType = "PAYMENT"
)

// Transaction is an immutable ledger entry recording a single balance
// movement on a card. Entries are append-only; nothing in the codebase
// updates or deletes them.
type Transaction struct {
	ID            uuid.UUID       `json:"id"`
	CardUID       string          `json:"card_uid"`
	Amount        int64           `json:"amount"` // Positive magnitude in smallest unit
	Type          TransactionType `json:"type"`
	BalanceBefore int64           `json:"balance_before"`
	BalanceAfter  int64           `json:"balance_after"`
	ProductID     *uuid.UUID      `json:"product_id,omitempty"`
	ProductName   *string         `json:"product_name,omitempty"` // Catalog name snapshot at sale time
	Description   string          `json:"description"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Consistent reports whether the before/after balances agree with the
// amount for this entry's type.
func (t *Transaction) Consistent() bool {
	switch t.Type {
	case TransactionTypeTopup:
		return t.BalanceAfter == t.BalanceBefore+t.Amount
	case TransactionTypePayment:
		return t.BalanceAfter == t.BalanceBefore-t.Amount
	default:
		return false
	}
}
