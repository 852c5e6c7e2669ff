// Package announce posts the scheduled giveaway announcement to the
// configured channel. The schedule is a cron expression; an empty or
// invalid one disables the announcer without affecting the rest of the
// bot.
package announce

import (
	"context"
	"time"

	"github.com/adhocore/gronx"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/logger"
)

// ChannelSender posts a message to a channel by username.
type ChannelSender interface {
	SendChannelMessage(ctx context.Context, channel, text string) error
}

// Announcer fires the announcement whenever the cron expression is due.
type Announcer struct {
	sender  ChannelSender
	bus     *bus.EventBus
	channel string
	expr    string
	text    string
}

// New builds an announcer. Returns ok=false when the schedule is empty or
// not a valid cron expression; the caller then simply skips starting it.
func New(sender ChannelSender, eventBus *bus.EventBus, channel, expr, text string) (*Announcer, bool) {
	if expr == "" || text == "" {
		return nil, false
	}
	if !gronx.New().IsValid(expr) {
		logger.WarnCF("announce", "invalid cron expression, announcer disabled", map[string]interface{}{
			"expr": expr,
		})
		return nil, false
	}
	return &Announcer{
		sender:  sender,
		bus:     eventBus,
		channel: channel,
		expr:    expr,
		text:    text,
	}, true
}

// Run checks the schedule once a minute until the context is done. A
// failed send is logged and retried at the next due tick, never sooner.
func (a *Announcer) Run(ctx context.Context) {
	logger.InfoCF("announce", "announcer running", map[string]interface{}{
		"expr":    a.expr,
		"channel": a.channel,
	})

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			due, err := gronx.New().IsDue(a.expr, now)
			if err != nil || !due {
				continue
			}
			a.fire(ctx)
		}
	}
}

func (a *Announcer) fire(ctx context.Context) {
	if err := a.sender.SendChannelMessage(ctx, a.channel, a.text); err != nil {
		logger.ErrorCF("announce", "announcement send failed", map[string]interface{}{
			"channel": a.channel,
			"error":   err.Error(),
		})
		a.bus.PublishSystem(events.New(events.AnnounceFailed, "announce", map[string]string{
			"channel": a.channel,
			"error":   err.Error(),
		}))
		return
	}
	logger.InfoCF("announce", "announcement sent", map[string]interface{}{
		"channel": a.channel,
	})
	a.bus.PublishSystem(events.New(events.AnnounceSent, "announce", map[string]string{
		"channel": a.channel,
	}))
}
