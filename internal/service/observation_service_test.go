package service

import (
	"context"
	"testing"

	"rfid-card-wallet/internal/core/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservationService_HandleCardStatus_ProvisionsUnknownCard(t *testing.T) {
	cards := newFakeCardRepo()
	notifier := &fakeNotifier{}
	svc := NewObservationService(cards, notifier, zerolog.Nop())

	balance := int64(250)
	err := svc.HandleCardStatus(context.Background(), domain.CardStatusEvent{
		CardUID: "04A1B2C3",
		Balance: &balance,
	})
	require.NoError(t, err)

	card, _ := cards.GetByUID(context.Background(), "04A1B2C3")
	require.NotNil(t, card)
	assert.Equal(t, domain.DefaultHolderName, card.HolderName)
	assert.Equal(t, int64(250), card.Balance)
	assert.True(t, card.IsProvisional())

	require.Len(t, notifier.cards, 1)
	assert.Equal(t, "detected", notifier.cards[0].Status)
	assert.Equal(t, int64(250), notifier.cards[0].Balance)
}

func TestObservationService_HandleCardStatus_NegativeObservedBalanceIgnored(t *testing.T) {
	cards := newFakeCardRepo()
	svc := NewObservationService(cards, &fakeNotifier{}, zerolog.Nop())

	balance := int64(-100)
	err := svc.HandleCardStatus(context.Background(), domain.CardStatusEvent{
		CardUID: "04A1B2C3",
		Balance: &balance,
	})
	require.NoError(t, err)

	card, _ := cards.GetByUID(context.Background(), "04A1B2C3")
	require.NotNil(t, card)
	assert.Equal(t, int64(0), card.Balance)
}

func TestObservationService_HandleCardStatus_KnownCardNotMutated(t *testing.T) {
	cards := newFakeCardRepo()
	notifier := &fakeNotifier{}
	svc := NewObservationService(cards, notifier, zerolog.Nop())

	cards.cards["04A1B2C3"] = domain.Card{UID: "04A1B2C3", HolderName: "Alice", Balance: 900}

	reported := int64(5)
	err := svc.HandleCardStatus(context.Background(), domain.CardStatusEvent{
		CardUID: "04A1B2C3",
		Balance: &reported,
	})
	require.NoError(t, err)

	// The stored record is the source of truth; the device-reported balance
	// never overwrites it.
	card, _ := cards.GetByUID(context.Background(), "04A1B2C3")
	assert.Equal(t, int64(900), card.Balance)
	assert.Equal(t, "Alice", card.HolderName)

	require.Len(t, notifier.cards, 1)
	assert.Equal(t, int64(900), notifier.cards[0].Balance)
	assert.Equal(t, "Alice", notifier.cards[0].HolderName)
}

func TestObservationService_HandleCardStatus_InsertRaceFallsBackToRead(t *testing.T) {
	cards := newFakeCardRepo()
	notifier := &fakeNotifier{}
	svc := NewObservationService(cards, notifier, zerolog.Nop())

	// Simulate losing the provisioning race: the first lookup misses, the
	// insert fails, and the row is there by the time we re-read.
	cards.cards["04A1B2C3"] = domain.Card{UID: "04A1B2C3", HolderName: "Alice", Balance: 100}
	cards.getMisses = 1
	cards.createErr = assert.AnError

	err := svc.HandleCardStatus(context.Background(), domain.CardStatusEvent{CardUID: "04A1B2C3"})
	require.NoError(t, err)

	require.Len(t, notifier.cards, 1)
	assert.Equal(t, "Alice", notifier.cards[0].HolderName)
}

func TestObservationService_HandleBalanceEcho(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewObservationService(newFakeCardRepo(), notifier, zerolog.Nop())

	payload := []byte(`{"uid":"04A1B2C3","balance":500}`)
	require.NoError(t, svc.HandleBalanceEcho(context.Background(), payload))
	require.Len(t, notifier.echoes, 1)
	assert.JSONEq(t, string(payload), string(notifier.echoes[0]))
}

func TestObservationService_HandleBalanceEcho_RejectsMalformedPayload(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := NewObservationService(newFakeCardRepo(), notifier, zerolog.Nop())

	err := svc.HandleBalanceEcho(context.Background(), []byte(`{not json`))
	require.Error(t, err)
	assert.Empty(t, notifier.echoes)
}
