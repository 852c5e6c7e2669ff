// Package webapp interprets the structured payloads the embedded game
// client delivers through the chat transport, and composes the replies.
// Interpretation performs no I/O: it is a total function on the payload
// string.
package webapp

import (
	"encoding/json"

	"github.com/livbubble/bubblebot/pkg/domain"
)

// Interpret parses a game-client payload into a domain event. Anything
// that is not a JSON object carrying one of the two completion flags is
// Malformed; the caller answers those with a generic error notice.
func Interpret(payload string) domain.GameEvent {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &obj); err != nil || obj == nil {
		return domain.GameEvent{Kind: domain.Malformed}
	}

	if truthy(obj["game_completed"]) {
		ev := domain.GameEvent{Kind: domain.GameCompleted}
		if raw, ok := obj["bubbles_popped"]; ok {
			var n int
			if err := json.Unmarshal(raw, &n); err == nil {
				ev.BubblesPopped = &n
			}
		}
		return ev
	}

	if truthy(obj["task_completed"]) {
		ev := domain.GameEvent{Kind: domain.TaskCompleted}
		if raw, ok := obj["task_id"]; ok {
			var id string
			if err := json.Unmarshal(raw, &id); err == nil {
				ev.TaskID = &id
			}
		}
		return ev
	}

	return domain.GameEvent{Kind: domain.Malformed}
}

// truthy mirrors the game client's loose flag convention: the flag counts
// when present and not false, 0, "", or null.
func truthy(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return false
	}
	switch t := v.(type) {
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	case nil:
		return false
	default:
		// Non-empty arrays/objects count as set.
		return true
	}
}
