package domain

// ---------------------------------------------------------------------------
// Channel membership
// ---------------------------------------------------------------------------

// MembershipStatus is a user's standing in the configured channel.
// It is looked up fresh on every gate decision and never cached: the gate
// tolerates transient staleness from the remote API, not from a local copy.
type MembershipStatus string

const (
	MembershipMember        MembershipStatus = "member"
	MembershipAdministrator MembershipStatus = "administrator"
	MembershipCreator       MembershipStatus = "creator"
	MembershipNotMember     MembershipStatus = "not_member"
	MembershipUnknown       MembershipStatus = "unknown"
)

// String implements fmt.Stringer.
func (s MembershipStatus) String() string { return string(s) }

// Subscribed reports whether the status unlocks the game. Only the three
// positive statuses count; anything else, including Unknown, prompts the
// user to subscribe.
func (s MembershipStatus) Subscribed() bool {
	switch s {
	case MembershipMember, MembershipAdministrator, MembershipCreator:
		return true
	default:
		return false
	}
}

// ---------------------------------------------------------------------------
// Gate responses
// ---------------------------------------------------------------------------

// GateResponseKind classifies the outcome of a /start gate decision.
type GateResponseKind string

const (
	// GateGameEntry means the user is subscribed: show the game button.
	GateGameEntry GateResponseKind = "game_entry"
	// GateSubscribePrompt means the user must join the channel first.
	GateSubscribePrompt GateResponseKind = "subscribe_prompt"
	// GateLookupError means the membership lookup failed; the failure is
	// absorbed into this terminal response, never propagated.
	GateLookupError GateResponseKind = "lookup_error"
)

// GateResponse is the terminal outcome of one gate evaluation.
type GateResponse struct {
	Kind GateResponseKind `json:"kind"`
	// URL is the web-app URL for GateGameEntry, or the channel join URL
	// for GateSubscribePrompt. Empty for GateLookupError.
	URL string `json:"url,omitempty"`
}
