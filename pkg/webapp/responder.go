package webapp

import (
	"context"
	"fmt"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/logger"
)

const (
	unknownValue      = "неизвестно"
	malformedText     = "⚠️ Ошибка при обработке данных."
	gameCompletedText = "🎉 Поздравляем! Ты успешно завершил игру!\n" +
		"Лопнул пузырей: %s\n\n" +
		"Ты выполнил все задания. Жди награду!"
	taskCompletedText = "✅ Задание #%s выполнено!"
)

// Responder turns interpreted game events into chat replies.
type Responder struct {
	transport domain.Transport
	bus       *bus.EventBus
}

// NewResponder wires a responder.
func NewResponder(transport domain.Transport, eventBus *bus.EventBus) *Responder {
	return &Responder{transport: transport, bus: eventBus}
}

// Handle interprets the event's payload and replies. A malformed payload
// gets the generic error notice; it is never a processing failure.
func (r *Responder) Handle(ctx context.Context, ev domain.InboundEvent) domain.GameEvent {
	game := Interpret(ev.WebAppPayload)

	data := events.WebAppData{
		SenderID:      int64(ev.SenderID),
		BubblesPopped: game.BubblesPopped,
		TaskID:        game.TaskID,
	}

	var text string
	switch game.Kind {
	case domain.GameCompleted:
		bubbles := unknownValue
		if game.BubblesPopped != nil {
			bubbles = fmt.Sprintf("%d", *game.BubblesPopped)
		}
		text = fmt.Sprintf(gameCompletedText, bubbles)
		r.bus.PublishSystem(events.New(events.WebAppGameCompleted, "webapp", data))

	case domain.TaskCompleted:
		taskID := unknownValue
		if game.TaskID != nil {
			taskID = *game.TaskID
		}
		text = fmt.Sprintf(taskCompletedText, taskID)
		r.bus.PublishSystem(events.New(events.WebAppTaskCompleted, "webapp", data))

	default:
		logger.WarnCF("webapp", "malformed game payload", map[string]interface{}{
			"sender_id": ev.SenderID,
			"payload":   ev.WebAppPayload,
		})
		text = malformedText
		r.bus.PublishSystem(events.New(events.WebAppMalformed, "webapp", data))
	}

	if err := r.transport.SendMessage(ctx, ev.ChatID, text, domain.SendOptions{}); err != nil {
		logger.WarnCF("webapp", "reply send failed", map[string]interface{}{
			"chat_id": ev.ChatID,
			"error":   err.Error(),
		})
	}
	return game
}
