// Package moderation provides spam classification for chat text and the
// ordered moderation pipeline that decides, per inbound event, whether
// the event stays or is deleted. Classification is a pure function over a
// static rule set; it never touches the network or the transport, so it
// is testable on literal strings.
package moderation

import (
	"strings"

	"github.com/livbubble/bubblebot/pkg/domain"
)

// Classify reports whether the text is spam under the given rules.
//
// Empty text is never spam. A configured domain appearing anywhere in the
// lower-cased text is spam on its own — domains are the highest-confidence
// signal and need no threshold. Otherwise the upper-cased text is scanned
// for configured keywords; the verdict is spam iff at least
// rules.Threshold distinct keywords match. A keyword repeated ten times
// still counts once.
func Classify(text string, rules domain.SpamRuleSet) bool {
	if text == "" {
		return false
	}

	lower := strings.ToLower(text)
	for _, d := range rules.Domains {
		if strings.Contains(lower, d) {
			return true
		}
	}

	upper := strings.ToUpper(text)
	hits := 0
	for _, k := range rules.Keywords {
		if strings.Contains(upper, k) {
			hits++
			if hits >= rules.Threshold {
				return true
			}
		}
	}
	return false
}
