package postgres

import (
	"context"
	"fmt"

	"rfid-card-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const transactionColumns = `id, card_uid, amount, tx_type, balance_before, balance_after, product_id, product_name, description, created_at`

// TransactionRepo implements ports.TransactionRepository. The ledger is
// append-only: this repo exposes no update or delete.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create appends a ledger entry within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, card_uid, amount, tx_type, balance_before, balance_after,
		product_id, product_name, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.CardUID, t.Amount, t.Type, t.BalanceBefore, t.BalanceAfter,
		t.ProductID, t.ProductName, t.Description, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// ListByCard fetches a card's ledger entries newest-first, bounded by limit.
func (r *TransactionRepo) ListByCard(ctx context.Context, uid string, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		WHERE card_uid = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions by card: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// List fetches the full ledger newest-first, bounded by limit.
func (r *TransactionRepo) List(ctx context.Context, limit int) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions
		ORDER BY created_at DESC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func scanTransactions(rows pgx.Rows) ([]domain.Transaction, error) {
	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.CardUID, &t.Amount, &t.Type, &t.BalanceBefore, &t.BalanceAfter,
			&t.ProductID, &t.ProductName, &t.Description, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
