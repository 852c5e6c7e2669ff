package telegram

import (
	"context"
	"fmt"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/logger"
)

// Poller runs the long-poll update loop and publishes mapped events onto
// the bus. The bus decouples polling from handling: a slow handler never
// stalls the Bot API consumption.
type Poller struct {
	transport *Transport
	bus       *bus.EventBus
}

// NewPoller wires a poller.
func NewPoller(transport *Transport, eventBus *bus.EventBus) *Poller {
	return &Poller{transport: transport, bus: eventBus}
}

// Run polls until the context is done. It blocks; callers start it on its
// own goroutine.
func (p *Poller) Run(ctx context.Context) error {
	updates, err := p.transport.Bot().UpdatesViaLongPolling(ctx, nil)
	if err != nil {
		return fmt.Errorf("start long polling: %w", err)
	}

	logger.InfoC("telegram", "long polling started")
	for update := range updates {
		ev, ok := MapUpdate(update)
		if !ok {
			continue
		}
		logger.DebugCF("telegram", "update received", map[string]interface{}{
			"chat_id":   ev.ChatID,
			"sender_id": ev.SenderID,
		})
		p.bus.PublishInbound(ev)
	}
	logger.InfoC("telegram", "long polling stopped")
	return nil
}
