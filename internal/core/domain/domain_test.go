package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCard_IsProvisional(t *testing.T) {
	assert.True(t, (&Card{HolderName: DefaultHolderName}).IsProvisional())
	assert.False(t, (&Card{HolderName: "Alice"}).IsProvisional())
	assert.False(t, (&Card{}).IsProvisional())
}

func TestCard_CanAfford(t *testing.T) {
	c := &Card{Balance: 500}
	assert.True(t, c.CanAfford(499))
	assert.True(t, c.CanAfford(500))
	assert.False(t, c.CanAfford(501))
}

func TestTransaction_Consistent(t *testing.T) {
	cases := []struct {
		name string
		txn  Transaction
		want bool
	}{
		{"topup ok", Transaction{Type: TransactionTypeTopup, Amount: 500, BalanceBefore: 100, BalanceAfter: 600}, true},
		{"topup mismatch", Transaction{Type: TransactionTypeTopup, Amount: 500, BalanceBefore: 100, BalanceAfter: 500}, false},
		{"payment ok", Transaction{Type: TransactionTypePayment, Amount: 300, BalanceBefore: 1000, BalanceAfter: 700}, true},
		{"payment mismatch", Transaction{Type: TransactionTypePayment, Amount: 300, BalanceBefore: 1000, BalanceAfter: 800}, false},
		{"unknown type", Transaction{Type: "REFUND", Amount: 100, BalanceBefore: 0, BalanceAfter: 100}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.txn.Consistent())
		})
	}
}

func TestCardStatusEvent_WireFormat(t *testing.T) {
	var ev CardStatusEvent
	require.NoError(t, json.Unmarshal([]byte(`{"uid":"04A1B2C3","balance":250}`), &ev))
	assert.Equal(t, "04A1B2C3", ev.CardUID)
	require.NotNil(t, ev.Balance)
	assert.Equal(t, int64(250), *ev.Balance)

	// Balance is optional on the wire.
	ev = CardStatusEvent{}
	require.NoError(t, json.Unmarshal([]byte(`{"uid":"04A1B2C3"}`), &ev))
	assert.Nil(t, ev.Balance)
}

func TestTopupCommand_WireFormat(t *testing.T) {
	data, err := json.Marshal(TopupCommand{CardUID: "C1", Amount: 500, NewBalance: 1500})
	require.NoError(t, err)
	assert.JSONEq(t, `{"uid":"C1","amount":500,"newBalance":1500}`, string(data))
}
