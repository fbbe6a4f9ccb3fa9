package service

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

// noopTx is a no-op pgx.Tx for exercising services against fake repos.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }
func (t *noopTx) Conn() *pgx.Conn                                              { return nil }

type fakeTransactor struct {
	beginErr error
}

func (f *fakeTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &noopTx{}, nil
}

// --- fake card repo ---

type fakeCardRepo struct {
	mu    sync.Mutex
	cards map[string]domain.Card

	createErr error
	updateErr error
	getMisses int // pending GetByUID calls that report not-found
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: make(map[string]domain.Card)}
}

func (r *fakeCardRepo) Create(ctx context.Context, c *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.cards[c.UID]; ok {
		return fmt.Errorf("duplicate key: %s", c.UID)
	}
	r.cards[c.UID] = *c
	return nil
}

func (r *fakeCardRepo) CreateInTx(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	return r.Create(ctx, c)
}

func (r *fakeCardRepo) GetByUID(ctx context.Context, uid string) (*domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getMisses > 0 {
		r.getMisses--
		return nil, nil
	}
	c, ok := r.cards[uid]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCardRepo) GetByUIDForUpdate(ctx context.Context, tx pgx.Tx, uid string) (*domain.Card, error) {
	return r.GetByUID(ctx, uid)
}

func (r *fakeCardRepo) Update(ctx context.Context, tx pgx.Tx, c *domain.Card) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if _, ok := r.cards[c.UID]; !ok {
		return fmt.Errorf("card not found: %s", c.UID)
	}
	r.cards[c.UID] = *c
	return nil
}

func (r *fakeCardRepo) List(ctx context.Context) ([]domain.Card, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Card, 0, len(r.cards))
	for _, c := range r.cards {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// --- fake transaction repo ---

type fakeTransactionRepo struct {
	mu        sync.Mutex
	entries   []domain.Transaction
	createErr error
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{}
}

func (r *fakeTransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *t)
	return nil
}

func (r *fakeTransactionRepo) ListByCard(ctx context.Context, uid string, limit int) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].CardUID == uid {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) List(ctx context.Context, limit int) ([]domain.Transaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Transaction
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}

// --- fake product repo ---

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[uuid.UUID]domain.Product
	countErr error
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]domain.Product)}
}

func (r *fakeProductRepo) add(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *fakeProductRepo) GetActiveByID(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok || !p.Active {
		return nil, nil
	}
	return &p, nil
}

func (r *fakeProductRepo) ListActive(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Product
	for _, p := range r.products {
		if p.Active {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	return out, nil
}

func (r *fakeProductRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) CreateBatch(ctx context.Context, products []domain.Product) error {
	for _, p := range products {
		r.add(p)
	}
	return nil
}

// --- fake device publisher ---

type fakePublisher struct {
	mu       sync.Mutex
	topups   []domain.TopupCommand
	payments []domain.PaymentCommand
	err      error
}

func (p *fakePublisher) PublishTopup(ctx context.Context, cmd domain.TopupCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.topups = append(p.topups, cmd)
	return nil
}

func (p *fakePublisher) PublishPayment(ctx context.Context, cmd domain.PaymentCommand) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.payments = append(p.payments, cmd)
	return nil
}

// --- fake notifier ---

type fakeNotifier struct {
	mu      sync.Mutex
	cards   []domain.CardNotification
	echoes  [][]byte
	updates []domain.TransactionNotification
	cardErr error
	txnErr  error
	echoErr error
}

func (n *fakeNotifier) CardDetected(ctx context.Context, c domain.CardNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cardErr != nil {
		return n.cardErr
	}
	n.cards = append(n.cards, c)
	return nil
}

func (n *fakeNotifier) BalanceEcho(ctx context.Context, payload []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.echoErr != nil {
		return n.echoErr
	}
	n.echoes = append(n.echoes, payload)
	return nil
}

func (n *fakeNotifier) TransactionUpdate(ctx context.Context, t domain.TransactionNotification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.txnErr != nil {
		return n.txnErr
	}
	n.updates = append(n.updates, t)
	return nil
}
