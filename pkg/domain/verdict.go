package domain

// ---------------------------------------------------------------------------
// Moderation verdicts
// ---------------------------------------------------------------------------

// SpamCategory names the rule a deleted message matched.
type SpamCategory string

const (
	CategoryForwarded      SpamCategory = "forwarded_message"
	CategorySpamText       SpamCategory = "spam_text"
	CategorySpamCaption    SpamCategory = "spam_caption"
	CategorySuspiciousLink SpamCategory = "suspicious_link"
)

// String implements fmt.Stringer.
func (c SpamCategory) String() string { return string(c) }

// Verdict is the moderation decision for one event: allow, or delete with
// a reason. The zero value is "allow".
type Verdict struct {
	Reason SpamCategory `json:"reason,omitempty"`
}

// Allow is the verdict that lets an event through untouched.
func Allow() Verdict { return Verdict{} }

// Delete is the verdict that removes the event for the given reason.
func Delete(reason SpamCategory) Verdict { return Verdict{Reason: reason} }

// Allowed reports whether the event passes moderation.
func (v Verdict) Allowed() bool { return v.Reason == "" }
