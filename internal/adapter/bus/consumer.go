package bus

import (
	"context"
	"encoding/json"

	"rfid-card-wallet/config"
	"rfid-card-wallet/internal/core/domain"
	"rfid-card-wallet/internal/core/ports"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Consumer subscribes to the inbound device channels (card status and
// balance echo) and routes events to the observation service. Malformed
// payloads and handler failures are logged and skipped; one bad message
// never stops the stream.
type Consumer struct {
	client   *goredis.Client
	channels config.ChannelSet
	obs      ports.ObservationService
	log      zerolog.Logger
}

// NewConsumer creates a device bus consumer.
func NewConsumer(client *goredis.Client, channels config.ChannelSet, obs ports.ObservationService, log zerolog.Logger) *Consumer {
	return &Consumer{client: client, channels: channels, obs: obs, log: log}
}

// Run subscribes and processes messages until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	sub := c.client.Subscribe(ctx, c.channels.Status, c.channels.Balance)
	defer sub.Close()

	// Fail fast if the subscription did not stick.
	if _, err := sub.Receive(ctx); err != nil {
		return err
	}

	c.log.Info().
		Str("status_channel", c.channels.Status).
		Str("balance_channel", c.channels.Balance).
		Msg("device bus consumer subscribed")

	msgs := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			c.log.Info().Msg("device bus consumer stopping")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.dispatch(ctx, msg)
		}
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg *goredis.Message) {
	switch msg.Channel {
	case c.channels.Status:
		var event domain.CardStatusEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			c.log.Error().Err(err).Str("payload", msg.Payload).Msg("malformed card status event")
			return
		}
		if event.CardUID == "" {
			c.log.Warn().Str("payload", msg.Payload).Msg("card status event without uid")
			return
		}
		if err := c.obs.HandleCardStatus(ctx, event); err != nil {
			c.log.Error().Err(err).Str("card_uid", event.CardUID).Msg("card status handling failed")
		}
	case c.channels.Balance:
		if err := c.obs.HandleBalanceEcho(ctx, []byte(msg.Payload)); err != nil {
			c.log.Error().Err(err).Msg("balance echo handling failed")
		}
	default:
		c.log.Warn().Str("channel", msg.Channel).Msg("message on unexpected channel")
	}
}
