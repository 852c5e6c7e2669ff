package moderation

import (
	"context"
	"strings"

	"github.com/livbubble/bubblebot/pkg/bus"
	"github.com/livbubble/bubblebot/pkg/domain"
	"github.com/livbubble/bubblebot/pkg/events"
	"github.com/livbubble/bubblebot/pkg/logger"
)

// User-facing notices per deletion reason. Forwarded messages are removed
// silently, matching the bot's long-standing behavior.
const (
	noticeSpamText       = "❌ Спам-сообщение удалено."
	noticeSpamCaption    = "❌ Спам в подписи удалён."
	noticeSuspiciousLink = "❌ Подозрительная ссылка удалена."
)

// Moderate applies the ordered decision policy to one event. The order is
// a correctness requirement, not an optimization: an admin's forwarded
// message must pass, a command must pass however spammy its arguments,
// and a forwarded message must go even when its content is clean.
//
//  1. admin sender        -> allow
//  2. command             -> allow
//  3. forwarded           -> delete (forwarding is itself the signal)
//  4. spam text           -> delete
//  5. spam caption        -> delete
//  6. spam domain in a
//     URL entity          -> delete
//  7. otherwise           -> allow
//
// No state carries over between events: no strikes, no cumulative scores.
func Moderate(ev domain.InboundEvent, admins domain.AdminSet, rules domain.SpamRuleSet) domain.Verdict {
	if admins.Contains(ev.SenderID) {
		return domain.Allow()
	}
	if ev.IsCommand() {
		return domain.Allow()
	}
	if ev.Forwarded {
		return domain.Delete(domain.CategoryForwarded)
	}
	if Classify(ev.Text, rules) {
		return domain.Delete(domain.CategorySpamText)
	}
	if Classify(ev.Caption, rules) {
		return domain.Delete(domain.CategorySpamCaption)
	}
	if linkSpam(ev, rules) {
		return domain.Delete(domain.CategorySuspiciousLink)
	}
	return domain.Allow()
}

// linkSpam checks URL-typed entities against the spam domains. The URL is
// sliced from the text by the entity's offset and length — a lookalike
// message body around a clean link must not trigger on the raw text.
func linkSpam(ev domain.InboundEvent, rules domain.SpamRuleSet) bool {
	for _, ent := range ev.Entities {
		if ent.Type != domain.EntityURL {
			continue
		}
		url := strings.ToLower(ent.Slice(ev.Text))
		if url == "" {
			continue
		}
		for _, d := range rules.Domains {
			if strings.Contains(url, d) {
				return true
			}
		}
	}
	return false
}

// Pipeline is the side-effecting executor around Moderate. It owns the
// delete-and-notify sequence for non-allow verdicts.
type Pipeline struct {
	transport domain.Transport
	bus       *bus.EventBus
	admins    domain.AdminSet
	rules     domain.SpamRuleSet
}

// NewPipeline wires the executor. The admin set and rule set are shared
// read-only; the pipeline never mutates them.
func NewPipeline(transport domain.Transport, eventBus *bus.EventBus, admins domain.AdminSet, rules domain.SpamRuleSet) *Pipeline {
	return &Pipeline{
		transport: transport,
		bus:       eventBus,
		admins:    admins,
		rules:     rules,
	}
}

// Handle moderates one event and executes the verdict. Deletion and
// notice failures are logged and swallowed — a message that is already
// gone, or a chat where the bot lacks delete rights, must never surface
// as a processing failure.
func (p *Pipeline) Handle(ctx context.Context, ev domain.InboundEvent) domain.Verdict {
	verdict := Moderate(ev, p.admins, p.rules)
	if verdict.Allowed() {
		return verdict
	}

	data := events.ModerationData{
		ChatID:    int64(ev.ChatID),
		MessageID: int(ev.MessageID),
		SenderID:  int64(ev.SenderID),
		Reason:    verdict.Reason.String(),
	}

	if err := p.transport.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		logger.WarnCF("moderation", "delete failed", map[string]interface{}{
			"chat_id":    ev.ChatID,
			"message_id": ev.MessageID,
			"reason":     verdict.Reason.String(),
			"error":      err.Error(),
		})
		p.bus.PublishSystem(events.New(events.ModerationDeleteFailed, "moderation", data))
		return verdict
	}

	logger.InfoCF("moderation", "message deleted", map[string]interface{}{
		"chat_id":    ev.ChatID,
		"message_id": ev.MessageID,
		"sender_id":  ev.SenderID,
		"reason":     verdict.Reason.String(),
	})
	p.bus.PublishSystem(events.New(events.ModerationDeleted, "moderation", data))

	if notice, ok := noticeFor(verdict.Reason); ok {
		if err := p.transport.SendMessage(ctx, ev.ChatID, notice, domain.SendOptions{}); err != nil {
			logger.WarnCF("moderation", "notice send failed", map[string]interface{}{
				"chat_id": ev.ChatID,
				"error":   err.Error(),
			})
		}
	}
	return verdict
}

// noticeFor returns the user-facing notice for a deletion reason, or
// ok=false when the deletion is silent.
func noticeFor(reason domain.SpamCategory) (string, bool) {
	switch reason {
	case domain.CategorySpamText:
		return noticeSpamText, true
	case domain.CategorySpamCaption:
		return noticeSpamCaption, true
	case domain.CategorySuspiciousLink:
		return noticeSuspiciousLink, true
	default:
		return "", false
	}
}
