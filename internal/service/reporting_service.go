package service

import (
	"context"
	"fmt"

	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"
	"rfid-card-wallet/pkg/apperror"
)

const (
	// cardHistoryLimit bounds the per-card ledger page.
	cardHistoryLimit = 50
	// defaultListLimit applies when the caller supplies no bound.
	defaultListLimit = 100
	// maxListLimit caps caller-supplied bounds.
	maxListLimit = 500
)

// ReportingServiceImpl implements ports.ReportingService: the read-only
// query surface over cards, ledger and catalog. No side effects.
type ReportingServiceImpl struct {
	cardRepo    ports.CardRepository
	txRepo      ports.TransactionRepository
	productRepo ports.ProductRepository
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(cardRepo ports.CardRepository, txRepo ports.TransactionRepository, productRepo ports.ProductRepository) *ReportingServiceImpl {
	return &ReportingServiceImpl{cardRepo: cardRepo, txRepo: txRepo, productRepo: productRepo}
}

// GetCard fetches one card by uid.
func (s *ReportingServiceImpl) GetCard(ctx context.Context, uid string) (*domain.Card, error) {
	card, err := s.cardRepo.GetByUID(ctx, uid)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("get card: %w", err))
	}
	if card == nil {
		return nil, apperror.ErrCardNotFound()
	}
	return card, nil
}

// ListCards returns all cards ordered by most-recently-updated.
func (s *ReportingServiceImpl) ListCards(ctx context.Context) ([]domain.Card, error) {
	cards, err := s.cardRepo.List(ctx)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("list cards: %w", err))
	}
	return cards, nil
}

// ListCardTransactions returns a card's ledger newest-first, bounded.
func (s *ReportingServiceImpl) ListCardTransactions(ctx context.Context, uid string) ([]domain.Transaction, error) {
	txns, err := s.txRepo.ListByCard(ctx, uid, cardHistoryLimit)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("list card transactions: %w", err))
	}
	return txns, nil
}

// ListTransactions returns the full ledger newest-first with a caller bound.
func (s *ReportingServiceImpl) ListTransactions(ctx context.Context, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	txns, err := s.txRepo.List(ctx, limit)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("list transactions: %w", err))
	}
	return txns, nil
}

// ListProducts returns active catalog entries ordered by price ascending.
func (s *ReportingServiceImpl) ListProducts(ctx context.Context) ([]domain.Product, error) {
	products, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("list products: %w", err))
	}
	return products, nil
}
