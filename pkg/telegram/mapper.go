package telegram

import (
	"unicode/utf16"

	"github.com/mymmrac/telego"

	"github.com/livbubble/bubblebot/pkg/domain"
)

// MapUpdate flattens a raw Telegram update into a domain inbound event.
// Updates that carry no message (edits, callback queries, member changes)
// are not part of the moderation surface; ok is false for those.
func MapUpdate(u telego.Update) (domain.InboundEvent, bool) {
	msg := u.Message
	if msg == nil {
		return domain.InboundEvent{}, false
	}

	ev := domain.InboundEvent{
		ChatID:    domain.ChatID(msg.Chat.ID),
		MessageID: domain.MessageID(msg.MessageID),
		Text:      msg.Text,
		Caption:   msg.Caption,
		Forwarded: msg.ForwardOrigin != nil,
	}
	if msg.From != nil {
		ev.SenderID = domain.UserID(msg.From.ID)
	}
	if msg.WebAppData != nil {
		ev.WebAppPayload = msg.WebAppData.Data
	}
	ev.Entities = mapEntities(msg.Text, msg.Entities)
	return ev, true
}

// mapEntities converts Bot API entities to domain entities. Telegram
// counts offsets in UTF-16 code units; domain entities slice by byte, so
// the offsets are rebased here. Entities that fall outside the text (a
// malformed update) are dropped.
func mapEntities(text string, entities []telego.MessageEntity) []domain.Entity {
	if len(entities) == 0 {
		return nil
	}
	out := make([]domain.Entity, 0, len(entities))
	for _, ent := range entities {
		start, end, ok := utf16Span(text, ent.Offset, ent.Length)
		if !ok {
			continue
		}
		out = append(out, domain.Entity{
			Type:   domain.EntityType(ent.Type),
			Offset: start,
			Length: end - start,
		})
	}
	return out
}

// utf16Span rebases a UTF-16 (offset, length) span onto byte positions.
func utf16Span(text string, offset, length int) (startByte, endByte int, ok bool) {
	if offset < 0 || length <= 0 {
		return 0, 0, false
	}
	end := offset + length
	u16 := 0
	startByte, endByte = -1, -1
	for i, r := range text {
		if u16 == offset {
			startByte = i
		}
		if u16 == end {
			endByte = i
			break
		}
		u16 += utf16.RuneLen(r)
		if u16 > end {
			// Span splits a surrogate pair — malformed entity.
			return 0, 0, false
		}
	}
	if startByte < 0 {
		return 0, 0, false
	}
	if endByte < 0 {
		if u16 != end {
			return 0, 0, false
		}
		endByte = len(text)
	}
	return startByte, endByte, true
}
