// Package events defines the typed event contracts for the bot. Every
// event flowing to the message bus or the admin WebSocket feed MUST use
// the envelope here. No ad-hoc map[string]interface{} events.
package events

import "time"

// --- Event Envelope ---

// Event is the universal envelope for all system events.
type Event struct {
	// Type identifies the event (e.g., "moderation.deleted")
	Type string `json:"type"`

	// Source identifies who emitted the event
	Source string `json:"source"`

	// Timestamp is when the event was emitted
	Timestamp time.Time `json:"timestamp"`

	// Data is the typed payload
	Data interface{} `json:"data"`
}

// New creates a timestamped event.
func New(eventType, source string, data interface{}) Event {
	return Event{
		Type:      eventType,
		Source:    source,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// --- Event Type Constants ---

const (
	// Bot lifecycle events
	BotStarted = "bot.started"
	BotStopped = "bot.stopped"
	BotError   = "bot.error"

	// Moderation events
	ModerationAllowed      = "moderation.allowed"
	ModerationDeleted      = "moderation.deleted"
	ModerationDeleteFailed = "moderation.delete_failed"

	// Gate events
	GateAllowed  = "gate.allowed"
	GatePrompted = "gate.prompted"
	GateError    = "gate.error"

	// Web-app events
	WebAppGameCompleted = "webapp.game_completed"
	WebAppTaskCompleted = "webapp.task_completed"
	WebAppMalformed     = "webapp.malformed"

	// Task list events
	TasksReplaced = "tasks.replaced"

	// Announcer events
	AnnounceSent   = "announce.sent"
	AnnounceFailed = "announce.failed"
)

// --- Typed Payloads ---

// ModerationData is the payload for moderation.* events.
type ModerationData struct {
	ChatID    int64  `json:"chat_id"`
	MessageID int    `json:"message_id"`
	SenderID  int64  `json:"sender_id"`
	Reason    string `json:"reason,omitempty"`
}

// GateData is the payload for gate.* events.
type GateData struct {
	UserID  int64  `json:"user_id"`
	ChatID  int64  `json:"chat_id"`
	Status  string `json:"status,omitempty"`
	Outcome string `json:"outcome"`
}

// WebAppData is the payload for webapp.* events.
type WebAppData struct {
	SenderID      int64   `json:"sender_id"`
	BubblesPopped *int    `json:"bubbles_popped,omitempty"`
	TaskID        *string `json:"task_id,omitempty"`
}
