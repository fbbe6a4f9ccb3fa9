package bus

import (
	"context"
	"encoding/json"
	"fmt"

	"rfid-card-wallet/config"
	"rfid-card-wallet/internal/core/domain"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Publisher implements ports.DevicePublisher over Redis Pub/Sub. Commands
// go out on the strict channel set agreed with the reader firmware.
type Publisher struct {
	client   *goredis.Client
	channels config.ChannelSet
	log      zerolog.Logger
}

// NewPublisher creates a device command publisher.
func NewPublisher(client *goredis.Client, channels config.ChannelSet, log zerolog.Logger) *Publisher {
	return &Publisher{client: client, channels: channels, log: log}
}

// PublishTopup sends a top-up command carrying the committed balance.
func (p *Publisher) PublishTopup(ctx context.Context, cmd domain.TopupCommand) error {
	if err := p.publish(ctx, p.channels.Topup, cmd); err != nil {
		return err
	}
	p.log.Debug().
		Str("card_uid", cmd.CardUID).
		Int64("new_balance", cmd.NewBalance).
		Msg("published topup command")
	return nil
}

// PublishPayment sends a debit confirmation carrying the committed balance.
func (p *Publisher) PublishPayment(ctx context.Context, cmd domain.PaymentCommand) error {
	if err := p.publish(ctx, p.channels.Pay, cmd); err != nil {
		return err
	}
	p.log.Debug().
		Str("card_uid", cmd.CardUID).
		Int64("amount", cmd.Amount).
		Msg("published payment command")
	return nil
}

func (p *Publisher) publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal bus payload: %w", err)
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}
