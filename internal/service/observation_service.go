package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// ObservationServiceImpl implements ports.ObservationService. It handles
// card-presence events from field hardware: auto-provisioning unknown
// cards and pushing snapshots to observers. It only ever creates or reads
// cards; balances are mutated exclusively by the wallet coordinator.
type ObservationServiceImpl struct {
	cardRepo ports.CardRepository
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewObservationService creates a new ObservationServiceImpl.
func NewObservationService(cardRepo ports.CardRepository, notifier ports.Notifier, log zerolog.Logger) *ObservationServiceImpl {
	return &ObservationServiceImpl{cardRepo: cardRepo, notifier: notifier, log: log}
}

// HandleCardStatus provisions a never-before-seen card at the observed (or
// zero) balance with the placeholder holder name, then pushes the current
// snapshot to observers. Provisioning is a plain insert — no ledger entry
// is produced and the wallet unit of work is not involved.
func (s *ObservationServiceImpl) HandleCardStatus(ctx context.Context, event domain.CardStatusEvent) error {
	card, err := s.cardRepo.GetByUID(ctx, event.CardUID)
	if err != nil {
		return fmt.Errorf("lookup card: %w", err)
	}

	if card == nil {
		now := time.Now().UTC()
		var balance int64
		if event.Balance != nil && *event.Balance > 0 {
			balance = *event.Balance
		}
		card = &domain.Card{
			UID:        event.CardUID,
			HolderName: domain.DefaultHolderName,
			Balance:    balance,
			LastTopup:  0,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.cardRepo.Create(ctx, card); err != nil {
			// Two readers can race on the first sighting; the loser's
			// insert hits the primary key. Re-read and carry on.
			existing, lookupErr := s.cardRepo.GetByUID(ctx, event.CardUID)
			if lookupErr != nil || existing == nil {
				return fmt.Errorf("create card: %w", err)
			}
			card = existing
		} else {
			s.log.Info().
				Str("card_uid", card.UID).
				Int64("balance", card.Balance).
				Msg("new card detected, record created")
		}
	}

	n := domain.CardNotification{
		CardUID:    card.UID,
		Balance:    card.Balance,
		HolderName: card.HolderName,
		Status:     "detected",
	}
	if err := s.notifier.CardDetected(ctx, n); err != nil {
		s.log.Error().Err(err).Str("card_uid", card.UID).Msg("card detection notification failed")
	}
	return nil
}

// HandleBalanceEcho forwards a device-reported balance to observers as a
// display-only confirmation. It is never written to storage: the card
// directory remains the single source of truth.
func (s *ObservationServiceImpl) HandleBalanceEcho(ctx context.Context, payload []byte) error {
	if !json.Valid(payload) {
		return fmt.Errorf("malformed balance echo payload")
	}
	if err := s.notifier.BalanceEcho(ctx, payload); err != nil {
		s.log.Error().Err(err).Msg("balance echo notification failed")
	}
	return nil
}
