package service

import (
	"context"

	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"

	"github.com/rs/zerolog"
)

// Outbox dispatches the post-commit side effects of wallet operations:
// device commands on the bus and observer notifications. Dispatch happens
// only after the unit of work commits, and a dispatch failure is logged
// with context but never reverses the commit.
type Outbox struct {
	devices  ports.DevicePublisher
	notifier ports.Notifier
	log      zerolog.Logger
}

// NewOutbox creates an outbox over the given publisher and notifier.
func NewOutbox(devices ports.DevicePublisher, notifier ports.Notifier, log zerolog.Logger) *Outbox {
	return &Outbox{devices: devices, notifier: notifier, log: log}
}

// TopupCommitted announces a committed top-up to the device and observers.
func (o *Outbox) TopupCommitted(ctx context.Context, card *domain.Card, txn *domain.Transaction) {
	cmd := domain.TopupCommand{
		CardUID:    card.UID,
		Amount:     txn.Amount,
		NewBalance: card.Balance,
	}
	if err := o.devices.PublishTopup(ctx, cmd); err != nil {
		o.log.Error().Err(err).Str("card_uid", card.UID).Msg("topup device command failed")
	}

	amount := txn.Amount
	newBalance := card.Balance
	n := domain.TransactionNotification{
		CardUID:    card.UID,
		Operation:  string(domain.TransactionTypeTopup),
		Quantity:   1,
		Amount:     &amount,
		NewBalance: &newBalance,
		Status:     "success",
		Message:    "Topup successful",
	}
	if err := o.notifier.TransactionUpdate(ctx, n); err != nil {
		o.log.Error().Err(err).Str("card_uid", card.UID).Msg("topup observer notification failed")
	}
}

// PaymentCommitted announces a committed payment to the device and observers.
func (o *Outbox) PaymentCommitted(ctx context.Context, card *domain.Card, product *domain.Product, txn *domain.Transaction, quantity int) {
	cmd := domain.PaymentCommand{
		CardUID:    card.UID,
		ProductID:  product.ID.String(),
		Quantity:   quantity,
		Amount:     txn.Amount,
		NewBalance: card.Balance,
	}
	if err := o.devices.PublishPayment(ctx, cmd); err != nil {
		o.log.Error().Err(err).Str("card_uid", card.UID).Msg("payment device command failed")
	}

	amount := txn.Amount
	newBalance := card.Balance
	name := product.Name
	n := domain.TransactionNotification{
		CardUID:     card.UID,
		Operation:   string(domain.TransactionTypePayment),
		ProductName: &name,
		Quantity:    quantity,
		Amount:      &amount,
		NewBalance:  &newBalance,
		Status:      "success",
		Message:     "Payment successful",
	}
	if err := o.notifier.TransactionUpdate(ctx, n); err != nil {
		o.log.Error().Err(err).Str("card_uid", card.UID).Msg("payment observer notification failed")
	}
}

// PaymentRejected announces an insufficient-funds decline to observers.
// Nothing was committed; balance fields stay empty so dashboards cannot
// mistake the event for a state change.
func (o *Outbox) PaymentRejected(ctx context.Context, cardUID string, quantity int) {
	n := domain.TransactionNotification{
		CardUID:   cardUID,
		Operation: string(domain.TransactionTypePayment),
		Quantity:  quantity,
		Status:    "rejected",
		Message:   "Insufficient balance",
	}
	if err := o.notifier.TransactionUpdate(ctx, n); err != nil {
		o.log.Error().Err(err).Str("card_uid", cardUID).Msg("rejection notification failed")
	}
}
