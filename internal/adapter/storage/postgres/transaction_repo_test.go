package postgres

import (
	"context"
	"testing"
	"time"

	"rfid-card-wallet/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transactionCols = []string{
	"id", "card_uid", "amount", "tx_type", "balance_before", "balance_after",
	"product_id", "product_name", "description", "created_at",
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	productID := uuid.New()
	productName := "Water"
	txn := domain.Transaction{
		ID:            uuid.New(),
		CardUID:       "04A1B2C3",
		Amount:        500,
		Type:          domain.TransactionTypePayment,
		BalanceBefore: 1000,
		BalanceAfter:  500,
		ProductID:     &productID,
		ProductName:   &productName,
		Description:   "Payment for Water x1",
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.CardUID, txn.Amount, txn.Type, txn.BalanceBefore, txn.BalanceAfter,
			txn.ProductID, txn.ProductName, txn.Description, txn.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), tx, &txn))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByCard(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(transactionCols).
		AddRow(uuid.New(), "C1", int64(500), domain.TransactionTypePayment, int64(1000), int64(500),
			(*uuid.UUID)(nil), (*string)(nil), "Payment for Water x1", now).
		AddRow(uuid.New(), "C1", int64(1000), domain.TransactionTypeTopup, int64(0), int64(1000),
			(*uuid.UUID)(nil), (*string)(nil), "Top-up of 1000", now.Add(-time.Minute))

	mock.ExpectQuery("SELECT .+ FROM transactions\\s+WHERE card_uid").
		WithArgs("C1", 50).
		WillReturnRows(rows)

	got, err := repo.ListByCard(context.Background(), "C1", 50)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.TransactionTypePayment, got[0].Type)
	assert.Equal(t, domain.TransactionTypeTopup, got[1].Type)
	assert.Nil(t, got[1].ProductID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_List(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	now := time.Now().UTC()

	rows := pgxmock.NewRows(transactionCols).
		AddRow(uuid.New(), "C2", int64(200), domain.TransactionTypeTopup, int64(0), int64(200),
			(*uuid.UUID)(nil), (*string)(nil), "Top-up of 200", now)

	mock.ExpectQuery("SELECT .+ FROM transactions\\s+ORDER BY created_at DESC").
		WithArgs(100).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "C2", got[0].CardUID)
	require.NoError(t, mock.ExpectationsWereMet())
}
