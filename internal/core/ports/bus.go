package ports

import (
	"context"

	"rfid-card-wallet/internal/core/domain"
)

// DevicePublisher sends post-commit commands to field hardware. Publishing
// happens only after the wallet unit of work commits; a publish failure is
// logged by the outbox and never rolls the commit back.
type DevicePublisher interface {
	PublishTopup(ctx context.Context, cmd domain.TopupCommand) error
	PublishPayment(ctx context.Context, cmd domain.PaymentCommand) error
}

// Notifier pushes state changes to connected real-time observers.
// Best-effort: implementations must never block the caller.
type Notifier interface {
	CardDetected(ctx context.Context, n domain.CardNotification) error
	BalanceEcho(ctx context.Context, payload []byte) error
	TransactionUpdate(ctx context.Context, n domain.TransactionNotification) error
}
