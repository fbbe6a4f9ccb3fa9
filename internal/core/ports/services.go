package ports

import (
	"context"

	"rfid-card-wallet/internal/core/domain"

	"github.com/google/uuid"
)

// WalletService is the wallet transaction coordinator: it turns top-up and
// payment intents into an atomic balance mutation plus ledger append.
type WalletService interface {
	TopUp(ctx context.Context, req TopupRequest) (*TopupResult, error)
	Pay(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}

// TopupRequest holds validated input for a top-up.
type TopupRequest struct {
	CardUID    string
	Amount     int64
	HolderName string // Optional; required when the card does not exist yet
}

// TopupResult carries the committed state back to the caller.
type TopupResult struct {
	Card        *domain.Card
	Transaction *domain.Transaction
}

// PaymentRequest holds validated input for a catalog-priced payment.
// Quantity arrives as float64 because JSON clients send arbitrary numbers;
// the service floors it to a positive integer, defaulting to 1.
type PaymentRequest struct {
	CardUID   string
	ProductID uuid.UUID
	Quantity  float64
}

// PaymentResult carries the committed state back to the caller.
type PaymentResult struct {
	Card        *domain.Card
	Transaction *domain.Transaction
	Product     *domain.Product
	Quantity    int
	TotalAmount int64
}

// ObservationService consumes card-present events from the device bus. It
// only ever creates or reads cards, never debits or credits.
type ObservationService interface {
	HandleCardStatus(ctx context.Context, event domain.CardStatusEvent) error
	HandleBalanceEcho(ctx context.Context, payload []byte) error
}

// ReportingService exposes the read-only query surface.
type ReportingService interface {
	GetCard(ctx context.Context, uid string) (*domain.Card, error)
	ListCards(ctx context.Context) ([]domain.Card, error)
	ListCardTransactions(ctx context.Context, uid string) ([]domain.Transaction, error)
	ListTransactions(ctx context.Context, limit int) ([]domain.Transaction, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
