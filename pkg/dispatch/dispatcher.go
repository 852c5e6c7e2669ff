// Package dispatch routes each inbound event to exactly one handler
// based on the event's shape, never on prior conversation state or on
// handler registration order: a web-app payload goes to the interpreter,
// the start and admin commands to the gate, everything else to the
// moderation pipeline.
package dispatch

import (
	"context"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/gate"
	"github.com/livbubble/bubblebot/pkg/logger"
	"github.com/livbubble/bubblebot/pkg/moderation"
	"github.com/livbubble/bubblebot/pkg/webapp"
)

const (
	cmdStart = "start"
	cmdAdmin = "admin"
)

// Dispatcher consumes the inbound stream and fans events out to their
// handlers, one goroutine per event. Events are independent: a slow
// membership lookup for one user never delays moderation of another.
type Dispatcher struct {
	bus      *bus.EventBus
	gate     *gate.Gate
	pipeline *moderation.Pipeline
	webApp   *webapp.Responder
}

// New wires a dispatcher.
func New(eventBus *bus.EventBus, g *gate.Gate, pipeline *moderation.Pipeline, responder *webapp.Responder) *Dispatcher {
	return &Dispatcher{
		bus:      eventBus,
		gate:     g,
		pipeline: pipeline,
		webApp:   responder,
	}
}

// Run consumes inbound events until the context is done. It blocks, so
// callers start it on its own goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	logger.InfoC("dispatch", "dispatcher running")
	for {
		ev, ok := d.bus.ConsumeInbound(ctx)
		if !ok {
			logger.InfoC("dispatch", "dispatcher stopped")
			return
		}
		go d.Dispatch(ctx, ev)
	}
}

// Dispatch routes one event. Exported so tests can drive routing without
// the consume loop.
func (d *Dispatcher) Dispatch(ctx context.Context, ev domain.InboundEvent) {
	switch {
	case ev.HasWebAppPayload():
		d.webApp.Handle(ctx, ev)
	case ev.Command() == cmdStart:
		d.gate.HandleStart(ctx, ev)
	case ev.Command() == cmdAdmin:
		d.gate.HandleAdmin(ctx, ev)
	default:
		// Other commands fall through here and the pipeline allows
		// them; commands are never spam.
		d.pipeline.Handle(ctx, ev)
	}
}
