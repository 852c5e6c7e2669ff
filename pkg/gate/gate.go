// Package gate decides, on a user's /start, whether the mini-game is
// unlocked: subscribed users get the game button, everyone else a
// subscribe prompt, and a failed membership lookup a terminal error
// reply. One lookup per /start, no retry — re-issuing /start is the
// user's retry mechanism.
package gate

import (
	"context"
	"fmt"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/logger"
)

const (
	welcomeText = "🎮 Добро пожаловать в <b>Liv Bubble</b>!\n\n" +
		"Вы подписаны — начинайте игру и участвуйте в розыгрыше каждый день в 12:00!"
	gameButtonText = "🎮 Начать игру"

	subscribeButtonText = "📢 Подписаться на канал"

	lookupErrorText = "❌ Произошла ошибка при проверке подписки. Попробуйте позже."

	adminWelcomeText = "🎯 Добро пожаловать в админ-панель!\n\n" +
		"Нажмите кнопку ниже, чтобы открыть панель управления."
	adminButtonText = "🔐 Открыть админ-панель"
	adminDeniedText = "❌ Доступ запрещён."
)

// Gate evaluates subscription status against the one configured channel.
type Gate struct {
	transport domain.Transport
	bus       *bus.EventBus
	admins    domain.AdminSet

	channel       string
	channelURL    string
	webAppURL     string
	adminPanelURL string
}

// New wires a gate for the configured channel and web app.
func New(transport domain.Transport, eventBus *bus.EventBus, admins domain.AdminSet, channel, channelURL, webAppURL, adminPanelURL string) *Gate {
	return &Gate{
		transport:     transport,
		bus:           eventBus,
		admins:        admins,
		channel:       channel,
		channelURL:    channelURL,
		webAppURL:     webAppURL,
		adminPanelURL: adminPanelURL,
	}
}

// EvaluateStart resolves the gate decision for one user. The membership
// lookup is attempted exactly once; any failure is absorbed into
// GateLookupError rather than returned.
func (g *Gate) EvaluateStart(ctx context.Context, userID domain.UserID) domain.GateResponse {
	status, err := g.transport.GetMembershipStatus(ctx, g.channel, userID)
	if err != nil {
		logger.ErrorCF("gate", "membership lookup failed", map[string]interface{}{
			"user_id": userID,
			"channel": g.channel,
			"error":   err.Error(),
		})
		return domain.GateResponse{Kind: domain.GateLookupError}
	}
	if status.Subscribed() {
		return domain.GateResponse{Kind: domain.GateGameEntry, URL: g.webAppURL}
	}
	return domain.GateResponse{Kind: domain.GateSubscribePrompt, URL: g.channelURL}
}

// HandleStart evaluates the gate and sends the matching reply. Send
// failures are logged; there is nothing further to do with them.
func (g *Gate) HandleStart(ctx context.Context, ev domain.InboundEvent) domain.GateResponse {
	resp := g.EvaluateStart(ctx, ev.SenderID)

	data := events.GateData{
		UserID:  int64(ev.SenderID),
		ChatID:  int64(ev.ChatID),
		Outcome: string(resp.Kind),
	}

	switch resp.Kind {
	case domain.GateGameEntry:
		g.bus.PublishSystem(events.New(events.GateAllowed, "gate", data))
		g.reply(ctx, ev.ChatID, welcomeText, domain.SendOptions{
			HTML:    true,
			Buttons: []domain.Button{{Text: gameButtonText, WebAppURL: resp.URL}},
		})

	case domain.GateSubscribePrompt:
		g.bus.PublishSystem(events.New(events.GatePrompted, "gate", data))
		text := fmt.Sprintf(
			"⚠️ Чтобы играть, вы должны быть подписаны на канал %s.\n\n"+
				"Подпишитесь и нажмите /start, чтобы начать игру.", g.channel)
		g.reply(ctx, ev.ChatID, text, domain.SendOptions{
			Buttons: []domain.Button{{Text: subscribeButtonText, URL: resp.URL}},
		})

	case domain.GateLookupError:
		g.bus.PublishSystem(events.New(events.GateError, "gate", data))
		g.reply(ctx, ev.ChatID, lookupErrorText, domain.SendOptions{})
	}

	return resp
}

// HandleAdmin serves the /admin command: admins get the panel button,
// anyone else a denial.
func (g *Gate) HandleAdmin(ctx context.Context, ev domain.InboundEvent) {
	if !g.admins.Contains(ev.SenderID) {
		g.reply(ctx, ev.ChatID, adminDeniedText, domain.SendOptions{})
		return
	}
	g.reply(ctx, ev.ChatID, adminWelcomeText, domain.SendOptions{
		Buttons: []domain.Button{{Text: adminButtonText, WebAppURL: g.adminPanelURL}},
	})
}

func (g *Gate) reply(ctx context.Context, chatID domain.ChatID, text string, opts domain.SendOptions) {
	if err := g.transport.SendMessage(ctx, chatID, text, opts); err != nil {
		logger.WarnCF("gate", "reply send failed", map[string]interface{}{
			"chat_id": chatID,
			"error":   err.Error(),
		})
	}
}
