package postgres

import (
	"context"
	"errors"
	"fmt"

	"rfid-card-wallet/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const cardColumns = `card_uid, holder_name, balance, last_topup, created_at, updated_at`

// CardRepo implements ports.CardRepository.
type CardRepo struct {
	pool Pool
}

// NewCardRepo creates a new CardRepo.
func NewCardRepo(pool Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

// Create inserts a new card outside any wallet unit of work. Used by
// card-presence auto-provisioning.
func (r *CardRepo) Create(ctx context.Context, c *domain.Card) error {
	query := `INSERT INTO cards (card_uid, holder_name, balance, last_topup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		c.UID, c.HolderName, c.Balance, c.LastTopup, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// CreateInTx inserts a new card within a database transaction. Used when a
// top-up provisions the card so the insert commits with the ledger entry.
func (r *CardRepo) CreateInTx(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	query := `INSERT INTO cards (card_uid, holder_name, balance, last_topup, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := tx.Exec(ctx, query,
		c.UID, c.HolderName, c.Balance, c.LastTopup, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert card in tx: %w", err)
	}
	return nil
}

// GetByUID fetches a card by its identifier (without locking).
// Returns nil, nil when the card does not exist.
func (r *CardRepo) GetByUID(ctx context.Context, uid string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_uid = $1`

	c := &domain.Card{}
	err := r.pool.QueryRow(ctx, query, uid).Scan(
		&c.UID, &c.HolderName, &c.Balance, &c.LastTopup, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card by uid: %w", err)
	}
	return c, nil
}

// GetByUIDForUpdate fetches a card with pessimistic locking. Concurrent
// wallet operations on the same card serialize on this row lock.
// This MUST be called within a transaction.
func (r *CardRepo) GetByUIDForUpdate(ctx context.Context, tx pgx.Tx, uid string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE card_uid = $1 FOR UPDATE`

	c := &domain.Card{}
	err := tx.QueryRow(ctx, query, uid).Scan(
		&c.UID, &c.HolderName, &c.Balance, &c.LastTopup, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get card for update: %w", err)
	}
	return c, nil
}

// Update writes a card's mutable fields within a database transaction.
func (r *CardRepo) Update(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	query := `UPDATE cards SET holder_name = $1, balance = $2, last_topup = $3, updated_at = $4
		WHERE card_uid = $5`

	tag, err := tx.Exec(ctx, query, c.HolderName, c.Balance, c.LastTopup, c.UpdatedAt, c.UID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card not found: %s", c.UID)
	}
	return nil
}

// List fetches all cards ordered by most recent activity.
func (r *CardRepo) List(ctx context.Context) ([]domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		c := domain.Card{}
		if err := rows.Scan(&c.UID, &c.HolderName, &c.Balance, &c.LastTopup, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan card row: %w", err)
		}
		cards = append(cards, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate card rows: %w", err)
	}
	return cards, nil
}
