package domain

import "context"

// ---------------------------------------------------------------------------
// Transport port
// ---------------------------------------------------------------------------

// Button is one inline keyboard button. Exactly one of URL and WebAppURL
// should be set.
type Button struct {
	Text      string
	URL       string
	WebAppURL string
}

// SendOptions carries the optional formatting and keyboard for a reply.
type SendOptions struct {
	// HTML enables HTML formatting of the message text.
	HTML bool
	// Buttons, when non-empty, attach an inline keyboard, one button
	// per row.
	Buttons []Button
}

// Transport is the chat backend the bot talks through. Implementations
// perform a single blocking attempt per call; retries and backoff are the
// caller's concern, and every caller here maps failure to a terminal,
// user-visible outcome instead of retrying.
type Transport interface {
	// GetMembershipStatus resolves the user's standing in the channel.
	// A non-nil error means the lookup itself failed (unreachable API,
	// malformed channel id); the status is then meaningless.
	GetMembershipStatus(ctx context.Context, channel string, userID UserID) (MembershipStatus, error)

	// DeleteMessage removes a message. Failing because the message is
	// already gone or permissions are missing is an error the caller
	// logs and swallows.
	DeleteMessage(ctx context.Context, chatID ChatID, messageID MessageID) error

	// SendMessage posts text to a chat.
	SendMessage(ctx context.Context, chatID ChatID, text string, opts SendOptions) error
}
