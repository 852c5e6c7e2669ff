// Package domain defines the value objects shared by the moderation,
// gate, and web-app interpretation contexts, plus the Transport port the
// bot consumes. Everything here is constructed per inbound update and
// discarded after dispatch; only the rule set and admin set are
// process-wide, and both are read-only after startup.
package domain

import "strings"

// UserID identifies a chat user.
type UserID int64

// ChatID identifies a chat (group, channel, or private).
type ChatID int64

// MessageID identifies a message within a chat.
type MessageID int

// EntityType classifies a message entity.
type EntityType string

const (
	// EntityURL marks a plain URL typed into the message text.
	EntityURL EntityType = "url"
	// EntityTextLink marks text hyperlinked to a hidden URL.
	EntityTextLink EntityType = "text_link"
)

// Entity is a typed span of the message text, identified by offset and
// length in the transport's encoding.
type Entity struct {
	Type   EntityType `json:"type"`
	Offset int        `json:"offset"`
	Length int        `json:"length"`
}

// Slice resolves the entity's substring from the given text. Out-of-range
// offsets (a malformed update) yield the empty string rather than a panic.
func (e Entity) Slice(text string) string {
	if e.Offset < 0 || e.Length <= 0 || e.Offset+e.Length > len(text) {
		return ""
	}
	return text[e.Offset : e.Offset+e.Length]
}

// CommandPrefix starts every bot command.
const CommandPrefix = "/"

// InboundEvent is one received chat update, flattened to the fields the
// pipeline needs. It is immutable: constructed once per update, consumed
// by exactly one handler, then dropped.
type InboundEvent struct {
	SenderID  UserID    `json:"sender_id"`
	ChatID    ChatID    `json:"chat_id"`
	MessageID MessageID `json:"message_id"`

	Text     string   `json:"text,omitempty"`
	Caption  string   `json:"caption,omitempty"`
	Entities []Entity `json:"entities,omitempty"`

	Forwarded bool `json:"forwarded,omitempty"`

	// WebAppPayload is the raw string delivered by the embedded game
	// client. Empty means the event carries no payload.
	WebAppPayload string `json:"web_app_payload,omitempty"`
}

// IsCommand reports whether the event's text starts with the command prefix.
func (e InboundEvent) IsCommand() bool {
	return strings.HasPrefix(e.Text, CommandPrefix)
}

// Command returns the leading command word without the prefix and without
// any @botname suffix, lower-cased ("/Start@liv_bot 1" -> "start").
// Empty when the event is not a command.
func (e InboundEvent) Command() string {
	if !e.IsCommand() {
		return ""
	}
	word := e.Text[len(CommandPrefix):]
	if i := strings.IndexAny(word, " \t\n"); i >= 0 {
		word = word[:i]
	}
	if i := strings.IndexByte(word, '@'); i >= 0 {
		word = word[:i]
	}
	return strings.ToLower(word)
}

// HasWebAppPayload reports whether the event carries a game-client payload.
func (e InboundEvent) HasWebAppPayload() bool {
	return e.WebAppPayload != ""
}
