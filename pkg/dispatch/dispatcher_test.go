package dispatch

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/gate"
	"github.com/livbubble/bubblebot/pkg/moderation"
	"github.com/livbubble/bubblebot/pkg/webapp"
)

// fakeTransport counts call kinds so routing is observable.
type fakeTransport struct {
	mu      sync.Mutex
	lookups int
	deletes int
	sent    []string
}

func (f *fakeTransport) GetMembershipStatus(ctx context.Context, channel string, userID domain.UserID) (domain.MembershipStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	return domain.MembershipMember, nil
}

func (f *fakeTransport) DeleteMessage(ctx context.Context, chatID domain.ChatID, messageID domain.MessageID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes++
	return nil
}

func (f *fakeTransport) SendMessage(ctx context.Context, chatID domain.ChatID, text string, opts domain.SendOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

func (f *fakeTransport) snapshot() (int, int, []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups, f.deletes, append([]string(nil), f.sent...)
}

var _ domain.Transport = (*fakeTransport)(nil)

func newTestDispatcher(transport *fakeTransport) (*Dispatcher, *bus.EventBus) {
	eventBus := bus.New()
	rules := domain.SpamRuleSet{
		Domains:   []string{"freeether.net"},
		Keywords:  []string{"FREE MONEY", "CLICK HERE"},
		Threshold: 2,
	}.Normalized()
	admins := domain.NewAdminSet(42)

	g := gate.New(transport, eventBus, admins,
		"@livbubble", "https://t.me/livbubble",
		"https://game.example", "https://game.example/admin/")
	pipeline := moderation.NewPipeline(transport, eventBus, admins, rules)
	responder := webapp.NewResponder(transport, eventBus)
	return New(eventBus, g, pipeline, responder), eventBus
}

func TestDispatchRouting(t *testing.T) {
	tests := []struct {
		name        string
		event       domain.InboundEvent
		wantLookups int
		wantDeletes int
		wantSent    int
	}{
		{
			name:        "start command routes to the gate",
			event:       domain.InboundEvent{SenderID: 7, ChatID: 7, Text: "/start"},
			wantLookups: 1,
			wantSent:    1,
		},
		{
			name:        "start with bot suffix routes to the gate",
			event:       domain.InboundEvent{SenderID: 7, ChatID: 7, Text: "/start@livbubble_bot"},
			wantLookups: 1,
			wantSent:    1,
		},
		{
			name:     "admin command routes to the admin handler",
			event:    domain.InboundEvent{SenderID: 7, ChatID: 7, Text: "/admin"},
			wantSent: 1,
		},
		{
			name:     "web-app payload routes to the interpreter",
			event:    domain.InboundEvent{SenderID: 7, ChatID: 7, WebAppPayload: `{"game_completed":true}`},
			wantSent: 1,
		},
		{
			name: "payload wins over command text",
			event: domain.InboundEvent{
				SenderID: 7, ChatID: 7,
				Text:          "/start",
				WebAppPayload: `{"task_completed":true}`,
			},
			wantSent: 1,
		},
		{
			name:        "spam routes to moderation",
			event:       domain.InboundEvent{SenderID: 7, ChatID: 7, MessageID: 1, Text: "FREE MONEY CLICK HERE"},
			wantDeletes: 1,
			wantSent:    1,
		},
		{
			name:  "other command passes through untouched",
			event: domain.InboundEvent{SenderID: 7, ChatID: 7, Text: "/help"},
		},
		{
			name:  "plain message passes through untouched",
			event: domain.InboundEvent{SenderID: 7, ChatID: 7, Text: "hello"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &fakeTransport{}
			d, eventBus := newTestDispatcher(transport)
			defer eventBus.Close()

			d.Dispatch(context.Background(), tt.event)

			lookups, deletes, sent := transport.snapshot()
			if lookups != tt.wantLookups {
				t.Errorf("lookups = %d, want %d", lookups, tt.wantLookups)
			}
			if deletes != tt.wantDeletes {
				t.Errorf("deletes = %d, want %d", deletes, tt.wantDeletes)
			}
			if len(sent) != tt.wantSent {
				t.Errorf("sent = %v, want %d messages", sent, tt.wantSent)
			}
		})
	}
}

func TestPayloadRoutesToInterpreterOnly(t *testing.T) {
	transport := &fakeTransport{}
	d, eventBus := newTestDispatcher(transport)
	defer eventBus.Close()

	d.Dispatch(context.Background(), domain.InboundEvent{
		SenderID: 7, ChatID: 7,
		WebAppPayload: `{"task_completed":true,"task_id":"T3"}`,
	})

	_, deletes, sent := transport.snapshot()
	if deletes != 0 {
		t.Error("interpreter path must not moderate")
	}
	if len(sent) != 1 || !strings.Contains(sent[0], "#T3") {
		t.Errorf("sent = %v, want the task acknowledgement", sent)
	}
}

func TestRunConsumesFromBus(t *testing.T) {
	transport := &fakeTransport{}
	d, eventBus := newTestDispatcher(transport)
	defer eventBus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)

	eventBus.PublishInbound(domain.InboundEvent{SenderID: 7, ChatID: 7, Text: "/start"})

	deadline := time.After(2 * time.Second)
	for {
		lookups, _, _ := transport.snapshot()
		if lookups == 1 {
			return
		}
		select {
		case <-deadline:
			t.Fatal("event was not dispatched from the bus")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
