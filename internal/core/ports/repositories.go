package ports

import (
	"context"

	"rfid-card-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CardRepository defines persistence operations for the card directory.
// Methods accepting pgx.Tx run inside the wallet's atomic unit of work;
// Create (without a tx) is the plain insert used by card-presence
// auto-provisioning, which deliberately does not join that unit.
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	CreateInTx(ctx context.Context, tx pgx.Tx, card *domain.Card) error
	GetByUID(ctx context.Context, uid string) (*domain.Card, error)
	GetByUIDForUpdate(ctx context.Context, tx pgx.Tx, uid string) (*domain.Card, error)
	Update(ctx context.Context, tx pgx.Tx, card *domain.Card) error
	List(ctx context.Context) ([]domain.Card, error)
}

// TransactionRepository defines persistence for the append-only ledger.
// There is intentionally no update or delete operation.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	ListByCard(ctx context.Context, uid string, limit int) ([]domain.Transaction, error)
	List(ctx context.Context, limit int) ([]domain.Transaction, error)
}

// ProductRepository defines read access to the catalog plus the batch
// insert used only by demo seeding. GetActiveByID takes the unit of work
// so the payment precondition is checked inside the same transaction.
type ProductRepository interface {
	GetActiveByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error)
	ListActive(ctx context.Context) ([]domain.Product, error)
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, products []domain.Product) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
