package postgres

import (
	"context"
	"errors"
	"fmt"

	"rfid-card-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepo implements ports.ProductRepository.
type ProductRepo struct {
	pool Pool
}

// NewProductRepo creates a new ProductRepo.
func NewProductRepo(pool Pool) *ProductRepo {
	return &ProductRepo{pool: pool}
}

// GetActiveByID fetches an active product by id within a database
// transaction. Inactive and missing products both return nil, nil.
func (r *ProductRepo) GetActiveByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT id, name, price, active FROM products WHERE id = $1 AND active = TRUE`

	p := &domain.Product{}
	err := tx.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.Active)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product by id: %w", err)
	}
	return p, nil
}

// ListActive fetches all active products ordered by price ascending.
func (r *ProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	query := `SELECT id, name, price, active FROM products WHERE active = TRUE ORDER BY price ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p := domain.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.Active); err != nil {
			return nil, fmt.Errorf("scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product rows: %w", err)
	}
	return products, nil
}

// Count returns the number of catalog rows, active or not.
func (r *ProductRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return count, nil
}

// CreateBatch inserts catalog rows. Only used by demo seeding.
func (r *ProductRepo) CreateBatch(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO products (id, name, price, active) VALUES ($1, $2, $3, $4)`,
			p.ID, p.Name, p.Price, p.Active,
		)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}
	return nil
}
