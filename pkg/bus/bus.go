// Package bus carries inbound chat events from the transport poller to
// the dispatcher, and fans system events out to observers (admin live
// feed, logging). The inbound stream has one primary consumer; system
// events go to every tap.
package bus

import (
	"context"
	"sync"

	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/events"
)

// Subscriber is a named tap on the system event stream. Multiple
// subscribers can independently consume the same published events
// (fan-out).
type Subscriber struct {
	Name string
	ch   chan events.Event
}

// EventBus connects the transport poller, the dispatcher, and the
// system-event observers.
type EventBus struct {
	inbound   chan domain.InboundEvent
	mu        sync.RWMutex
	closed    bool
	closeOnce sync.Once

	// Fan-out subscribers — every system event is sent to all taps
	systemSubs []*Subscriber
}

// New creates an event bus with a bounded inbound buffer.
func New() *EventBus {
	return &EventBus{
		inbound: make(chan domain.InboundEvent, 100),
	}
}

// PublishInbound queues an inbound chat event for the dispatcher. When
// the buffer is full the oldest queued event is dropped in favor of the
// new one: a stalled dispatcher must not wedge the transport poller.
func (b *EventBus) PublishInbound(ev domain.InboundEvent) {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return
	}
	b.mu.RUnlock()

	select {
	case b.inbound <- ev:
	default:
		// Channel full — drop oldest and retry
		select {
		case <-b.inbound:
		default:
		}
		select {
		case b.inbound <- ev:
		default:
		}
	}
}

// ConsumeInbound blocks for the next inbound event. The second return is
// false when the context is done.
func (b *EventBus) ConsumeInbound(ctx context.Context) (domain.InboundEvent, bool) {
	select {
	case ev := <-b.inbound:
		return ev, true
	case <-ctx.Done():
		return domain.InboundEvent{}, false
	}
}

// SubscribeSystem creates a named subscriber that receives copies of all
// system events. The returned channel is buffered; slow consumers drop.
func (b *EventBus) SubscribeSystem(name string) <-chan events.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	sub := &Subscriber{Name: name, ch: make(chan events.Event, 64)}
	b.systemSubs = append(b.systemSubs, sub)
	return sub.ch
}

// PublishSystem publishes a system event to all system subscribers.
func (b *EventBus) PublishSystem(event events.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, sub := range b.systemSubs {
		select {
		case sub.ch <- event:
		default: // non-blocking — drop if subscriber is slow
		}
	}
}

// Close shuts the bus down. Subsequent publishes are no-ops.
func (b *EventBus) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		for _, sub := range b.systemSubs {
			close(sub.ch)
		}
		b.mu.Unlock()
		close(b.inbound)
	})
}
