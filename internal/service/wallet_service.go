package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"
	"rfid-card-wallet/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService: the coordinator that
// turns a top-up or payment intent into an atomic pair of writes — the
// card balance mutation and the ledger append. Both become visible
// together or not at all; per-card serialization comes from the row lock
// taken inside the unit of work.
type WalletServiceImpl struct {
	cardRepo    ports.CardRepository
	txRepo      ports.TransactionRepository
	productRepo ports.ProductRepository
	transactor  ports.DBTransactor
	outbox      *Outbox
	log         zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(
	cardRepo ports.CardRepository,
	txRepo ports.TransactionRepository,
	productRepo ports.ProductRepository,
	transactor ports.DBTransactor,
	outbox *Outbox,
	log zerolog.Logger,
) *WalletServiceImpl {
	return &WalletServiceImpl{
		cardRepo:    cardRepo,
		txRepo:      txRepo,
		productRepo: productRepo,
		transactor:  transactor,
		outbox:      outbox,
		log:         log,
	}
}

// TopUp credits a card and appends a TOPUP ledger entry in one atomic unit.
// An unknown card is created inside the same unit, which requires a holder
// name. A provisional "New User" card is renamed when a different non-empty
// name arrives; a card whose holder is already set is never silently renamed.
func (s *WalletServiceImpl) TopUp(ctx context.Context, req ports.TopupRequest) (*ports.TopupResult, error) {
	if req.CardUID == "" {
		return nil, apperror.Validation("card_uid is required")
	}
	if req.Amount <= 0 {
		return nil, apperror.Validation("amount must be positive")
	}
	holderName := strings.TrimSpace(req.HolderName)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	card, err := s.cardRepo.GetByUIDForUpdate(ctx, dbTx, req.CardUID)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("lock card: %w", err))
	}

	now := time.Now().UTC()
	var balanceBefore int64

	if card == nil {
		if holderName == "" {
			return nil, apperror.Validation("holder name required for new card")
		}
		card = &domain.Card{
			UID:        req.CardUID,
			HolderName: holderName,
			Balance:    req.Amount,
			LastTopup:  req.Amount,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		// Concurrent first top-ups on an unseen card have no row to lock
		// and race on this insert. The loser's unit of work aborts on the
		// primary key and the client retries; nothing partial commits.
		if err := s.cardRepo.CreateInTx(ctx, dbTx, card); err != nil {
			return nil, apperror.Infrastructure(fmt.Errorf("create card: %w", err))
		}
	} else {
		balanceBefore = card.Balance
		card.Balance += req.Amount
		card.LastTopup = req.Amount
		card.UpdatedAt = now
		if holderName != "" && holderName != card.HolderName && card.IsProvisional() {
			card.HolderName = holderName
		}
		if err := s.cardRepo.Update(ctx, dbTx, card); err != nil {
			return nil, apperror.Infrastructure(fmt.Errorf("update card: %w", err))
		}
	}

	txn := &domain.Transaction{
		ID:            uuid.New(),
		CardUID:       card.UID,
		Amount:        req.Amount,
		Type:          domain.TransactionTypeTopup,
		BalanceBefore: balanceBefore,
		BalanceAfter:  card.Balance,
		Description:   fmt.Sprintf("Top-up of %d", req.Amount),
		CreatedAt:     now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit side effects: best-effort, never roll back the ledger.
	s.outbox.TopupCommitted(ctx, card, txn)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("card_uid", card.UID).
		Int64("amount", req.Amount).
		Int64("balance", card.Balance).
		Msg("topup committed")

	return &ports.TopupResult{Card: card, Transaction: txn}, nil
}

// Pay debits a card by a catalog-priced amount and appends a PAYMENT ledger
// entry in one atomic unit. Checks run in order: product active, card
// exists, sufficient funds. A rejected payment performs no mutation and is
// announced to observers but never ledgered.
func (s *WalletServiceImpl) Pay(ctx context.Context, req ports.PaymentRequest) (*ports.PaymentResult, error) {
	if req.CardUID == "" {
		return nil, apperror.Validation("card_uid is required")
	}
	if req.ProductID == uuid.Nil {
		return nil, apperror.Validation("product_id is required")
	}
	quantity := normalizeQuantity(req.Quantity)

	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	product, err := s.productRepo.GetActiveByID(ctx, dbTx, req.ProductID)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("resolve product: %w", err))
	}
	if product == nil {
		return nil, apperror.ErrProductNotFound()
	}

	card, err := s.cardRepo.GetByUIDForUpdate(ctx, dbTx, req.CardUID)
	if err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("lock card: %w", err))
	}
	if card == nil {
		return nil, apperror.ErrCardNotFound()
	}

	totalAmount := product.Price * int64(quantity)
	if totalAmount <= 0 || totalAmount/int64(quantity) != product.Price {
		return nil, apperror.Validation("total amount out of range")
	}
	balanceBefore := card.Balance

	if !card.CanAfford(totalAmount) {
		s.outbox.PaymentRejected(ctx, card.UID, quantity)
		s.log.Info().
			Str("card_uid", card.UID).
			Int64("balance", balanceBefore).
			Int64("requested", totalAmount).
			Msg("payment rejected: insufficient funds")
		return nil, apperror.ErrInsufficientFunds()
	}

	now := time.Now().UTC()
	card.Balance -= totalAmount
	card.UpdatedAt = now
	if err := s.cardRepo.Update(ctx, dbTx, card); err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("update card: %w", err))
	}

	productName := product.Name
	txn := &domain.Transaction{
		ID:            uuid.New(),
		CardUID:       card.UID,
		Amount:        totalAmount,
		Type:          domain.TransactionTypePayment,
		BalanceBefore: balanceBefore,
		BalanceAfter:  card.Balance,
		ProductID:     &product.ID,
		ProductName:   &productName,
		Description:   fmt.Sprintf("Payment for %s x%d", product.Name, quantity),
		CreatedAt:     now,
	}
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("create transaction: %w", err))
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, apperror.Infrastructure(fmt.Errorf("commit tx: %w", err))
	}

	// Post-commit side effects: best-effort, never roll back the ledger.
	s.outbox.PaymentCommitted(ctx, card, product, txn, quantity)

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("card_uid", card.UID).
		Str("product", product.Name).
		Int("quantity", quantity).
		Int64("amount", totalAmount).
		Int64("balance", card.Balance).
		Msg("payment committed")

	return &ports.PaymentResult{
		Card:        card,
		Transaction: txn,
		Product:     product,
		Quantity:    quantity,
		TotalAmount: totalAmount,
	}, nil
}

// maxQuantity bounds a single payment. Conversion of larger float64
// values to int is undefined and must never reach the multiplication.
const maxQuantity = 1 << 31

// normalizeQuantity floors the requested quantity to a positive integer.
// NaN, infinities, non-positive and out-of-range values all default to 1.
func normalizeQuantity(q float64) int {
	if math.IsNaN(q) || q <= 0 || q >= maxQuantity {
		return 1
	}
	return int(math.Floor(q))
}
