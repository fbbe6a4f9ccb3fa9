package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"rfid-card-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// memStore is an in-memory stand-in for PostgreSQL with the same
// transactional shape the wallet relies on: Begin serializes units of
// work the way the row lock does, writes stage until Commit, and
// Rollback discards them. This lets the integration suite exercise the
// full stack, concurrency included, without a database server.
type memStore struct {
	uowMu  sync.Mutex // held from Begin to Commit/Rollback
	dataMu sync.Mutex // guards the maps below

	cards    map[string]domain.Card
	ledger   []domain.Transaction
	products map[uuid.UUID]domain.Product
}

func newMemStore() *memStore {
	return &memStore{
		cards:    make(map[string]domain.Card),
		products: make(map[uuid.UUID]domain.Product),
	}
}

// memTx stages writes until Commit. It satisfies pgx.Tx so it can flow
// through the repository interfaces; the query methods are never invoked
// by the in-memory repos.
type memTx struct {
	store   *memStore
	pending []func()
	done    bool
	mu      sync.Mutex
}

func (t *memTx) stage(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pending = append(t.pending, fn)
}

func (t *memTx) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true

	t.store.dataMu.Lock()
	for _, fn := range t.pending {
		fn()
	}
	t.store.dataMu.Unlock()

	t.store.uowMu.Unlock()
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return pgx.ErrTxClosed
	}
	t.done = true
	t.pending = nil
	t.store.uowMu.Unlock()
	return nil
}

func (t *memTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *memTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *memTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *memTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *memTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *memTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *memTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *memTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *memTx) Conn() *pgx.Conn                                              { return nil }

// memTransactor implements ports.DBTransactor over memStore.
type memTransactor struct {
	store *memStore
}

func (m *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	m.store.uowMu.Lock()
	return &memTx{store: m.store}, nil
}

// --- card repository ---

type memCardRepo struct {
	store *memStore
}

func (r *memCardRepo) Create(ctx context.Context, c *domain.Card) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	if _, ok := r.store.cards[c.UID]; ok {
		return fmt.Errorf("duplicate key value violates unique constraint: %s", c.UID)
	}
	r.store.cards[c.UID] = *c
	return nil
}

func (r *memCardRepo) CreateInTx(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	card := *c
	mt.stage(func() { r.store.cards[card.UID] = card })
	return nil
}

func (r *memCardRepo) GetByUID(ctx context.Context, uid string) (*domain.Card, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	c, ok := r.store.cards[uid]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *memCardRepo) GetByUIDForUpdate(ctx context.Context, tx pgx.Tx, uid string) (*domain.Card, error) {
	// The unit-of-work mutex already provides the exclusivity the row
	// lock would; a committed-state read suffices.
	return r.GetByUID(ctx, uid)
}

func (r *memCardRepo) Update(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	card := *c
	mt.stage(func() { r.store.cards[card.UID] = card })
	return nil
}

func (r *memCardRepo) List(ctx context.Context) ([]domain.Card, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	out := make([]domain.Card, 0, len(r.store.cards))
	for _, c := range r.store.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// --- transaction repository ---

type memTransactionRepo struct {
	store *memStore
}

func (r *memTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	mt, ok := tx.(*memTx)
	if !ok {
		return fmt.Errorf("unexpected tx type %T", tx)
	}
	txn := *t
	mt.stage(func() { r.store.ledger = append(r.store.ledger, txn) })
	return nil
}

func (r *memTransactionRepo) ListByCard(ctx context.Context, uid string, limit int) ([]domain.Transaction, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	var out []domain.Transaction
	for i := len(r.store.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		if r.store.ledger[i].CardUID == uid {
			out = append(out, r.store.ledger[i])
		}
	}
	return out, nil
}

func (r *memTransactionRepo) List(ctx context.Context, limit int) ([]domain.Transaction, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	var out []domain.Transaction
	for i := len(r.store.ledger) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.store.ledger[i])
	}
	return out, nil
}

// --- product repository ---

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) GetActiveByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	p, ok := r.store.products[id]
	if !ok || !p.Active {
		return nil, nil
	}
	return &p, nil
}

func (r *memProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	var out []domain.Product
	for _, p := range r.store.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r *memProductRepo) Count(ctx context.Context) (int64, error) {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	return int64(len(r.store.products)), nil
}

func (r *memProductRepo) CreateBatch(ctx context.Context, products []domain.Product) error {
	r.store.dataMu.Lock()
	defer r.store.dataMu.Unlock()
	for _, p := range products {
		r.store.products[p.ID] = p
	}
	return nil
}
