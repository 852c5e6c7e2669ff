package domain

// ---------------------------------------------------------------------------
// Game-client events
// ---------------------------------------------------------------------------

// GameEventKind classifies an interpreted web-app payload.
type GameEventKind string

const (
	GameCompleted GameEventKind = "game_completed"
	TaskCompleted GameEventKind = "task_completed"
	// Malformed covers payloads that are not objects or carry neither
	// completion flag.
	Malformed GameEventKind = "malformed"
)

// GameEvent is the interpreted form of a game-client payload.
type GameEvent struct {
	Kind GameEventKind `json:"kind"`

	// BubblesPopped is present only for GameCompleted, and only when the
	// client reported a count.
	BubblesPopped *int `json:"bubbles_popped,omitempty"`

	// TaskID is present only for TaskCompleted, and only when the client
	// reported one.
	TaskID *string `json:"task_id,omitempty"`
}
