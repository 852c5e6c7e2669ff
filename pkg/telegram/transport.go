// Package telegram is the telego-backed implementation of the Transport
// port, plus the long-poll loop that turns raw Telegram updates into
// domain inbound events on the bus.
package telegram

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mymmrac/telego"

	"github.com/livbubble/bubblebot/pkg/domain"
)

// Transport wraps a telego bot. Each port call is a single blocking
// Bot API request with no internal retry; callers map failures to
// terminal outcomes.
type Transport struct {
	bot *telego.Bot
}

// NewTransport authenticates against the Bot API. A bad token fails here,
// which is the one fatal startup condition.
func NewTransport(token string) (*Transport, error) {
	bot, err := telego.NewBot(token, telego.WithDefaultLogger(false, true))
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Transport{bot: bot}, nil
}

// Bot exposes the underlying telego bot for the update poller.
func (t *Transport) Bot() *telego.Bot { return t.bot }

// GetMembershipStatus implements domain.Transport.
func (t *Transport) GetMembershipStatus(ctx context.Context, channel string, userID domain.UserID) (domain.MembershipStatus, error) {
	member, err := t.bot.GetChatMember(ctx, &telego.GetChatMemberParams{
		ChatID: chatIdentifier(channel),
		UserID: int64(userID),
	})
	if err != nil {
		return domain.MembershipUnknown, fmt.Errorf("get chat member: %w", err)
	}
	return mapMemberStatus(member.MemberStatus()), nil
}

// DeleteMessage implements domain.Transport.
func (t *Transport) DeleteMessage(ctx context.Context, chatID domain.ChatID, messageID domain.MessageID) error {
	err := t.bot.DeleteMessage(ctx, &telego.DeleteMessageParams{
		ChatID:    telego.ChatID{ID: int64(chatID)},
		MessageID: int(messageID),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

// SendMessage implements domain.Transport.
func (t *Transport) SendMessage(ctx context.Context, chatID domain.ChatID, text string, opts domain.SendOptions) error {
	params := &telego.SendMessageParams{
		ChatID: telego.ChatID{ID: int64(chatID)},
		Text:   text,
	}
	if opts.HTML {
		params.ParseMode = telego.ModeHTML
	}
	if len(opts.Buttons) > 0 {
		rows := make([][]telego.InlineKeyboardButton, 0, len(opts.Buttons))
		for _, b := range opts.Buttons {
			btn := telego.InlineKeyboardButton{Text: b.Text}
			if b.WebAppURL != "" {
				btn.WebApp = &telego.WebAppInfo{URL: b.WebAppURL}
			} else {
				btn.URL = b.URL
			}
			rows = append(rows, []telego.InlineKeyboardButton{btn})
		}
		params.ReplyMarkup = &telego.InlineKeyboardMarkup{InlineKeyboard: rows}
	}
	if _, err := t.bot.SendMessage(ctx, params); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendChannelMessage posts text to a channel addressed by username. Used
// by the announcer, which targets the channel itself rather than a chat
// the bot saw a message in.
func (t *Transport) SendChannelMessage(ctx context.Context, channel, text string) error {
	_, err := t.bot.SendMessage(ctx, &telego.SendMessageParams{
		ChatID: chatIdentifier(channel),
		Text:   text,
	})
	if err != nil {
		return fmt.Errorf("send channel message: %w", err)
	}
	return nil
}

// chatIdentifier accepts either an @username or a numeric chat id.
func chatIdentifier(channel string) telego.ChatID {
	if strings.HasPrefix(channel, "@") {
		return telego.ChatID{Username: channel}
	}
	if id, err := strconv.ParseInt(channel, 10, 64); err == nil {
		return telego.ChatID{ID: id}
	}
	// Bare username without the @ prefix.
	return telego.ChatID{Username: "@" + channel}
}

// mapMemberStatus narrows the Bot API member status to the domain's
// closed set. Restricted and banned users are not members for gate
// purposes; unrecognized statuses are Unknown and never unlock the gate.
func mapMemberStatus(status string) domain.MembershipStatus {
	switch status {
	case telego.MemberStatusCreator:
		return domain.MembershipCreator
	case telego.MemberStatusAdministrator:
		return domain.MembershipAdministrator
	case telego.MemberStatusMember:
		return domain.MembershipMember
	case telego.MemberStatusRestricted, telego.MemberStatusLeft, telego.MemberStatusBanned:
		return domain.MembershipNotMember
	default:
		return domain.MembershipUnknown
	}
}

// Verify interface compliance at compile time.
var _ domain.Transport = (*Transport)(nil)
