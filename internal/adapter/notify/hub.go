package notify

import (
	"context"
	"encoding/json"
	"sync"

	"rfid-card-wallet/internal/core/domain"

	"github.com/rs/zerolog"
)

// Event is a single observer notification: a named payload pushed to every
// connected dashboard.
type Event struct {
	Name string
	Data any
}

// Hub implements ports.Notifier as an in-process fan-out to SSE observers.
// Broadcasts are fire-and-forget: a slow observer's events are dropped
// rather than blocking the sender, so notification can never gate ledger
// correctness.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan Event]struct{}
	buffer  int
	closed  bool
	log     zerolog.Logger
}

// NewHub creates a hub. buffer is the per-observer event queue size.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		clients: make(map[chan Event]struct{}),
		buffer:  buffer,
		log:     log,
	}
}

// Subscribe registers a new observer and returns its event channel along
// with an unsubscribe function.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.clients[ch] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()

	h.log.Debug().Int("observers", count).Msg("observer connected")

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}
			h.mu.Unlock()
		})
	}
	return ch, unsubscribe
}

// Broadcast pushes an event to every observer without blocking.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			h.log.Warn().Str("event", ev.Name).Msg("observer queue full, event dropped")
		}
	}
}

// Close disconnects all observers. Called on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}

// --- ports.Notifier ---

// CardDetected pushes a card snapshot after a presence event.
func (h *Hub) CardDetected(_ context.Context, n domain.CardNotification) error {
	h.Broadcast(Event{Name: "card-status", Data: n})
	return nil
}

// BalanceEcho forwards a device-reported balance verbatim. Display-only;
// the card directory stays the single source of truth.
func (h *Hub) BalanceEcho(_ context.Context, payload []byte) error {
	h.Broadcast(Event{Name: "card-balance", Data: json.RawMessage(payload)})
	return nil
}

// TransactionUpdate pushes a wallet operation outcome, success or rejected.
func (h *Hub) TransactionUpdate(_ context.Context, n domain.TransactionNotification) error {
	h.Broadcast(Event{Name: "transaction-update", Data: n})
	return nil
}
