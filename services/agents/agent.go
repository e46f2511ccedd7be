package agents

import (
	"context"
	"strings"

	"careline/models"
)

// Agent is a specialized responder for one conversation domain. Agents read
// the session but never write the store; state changes travel back to the
// dispatcher as a context patch on the response. Handle never fails: on any
// internal error the agent substitutes a canned reply that reads as a
// normal assistant message.
type Agent interface {
	Label() models.AgentLabel
	Handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse
}

// subIntentRule maps trigger keywords to a sub-intent label. Each agent
// declares its rules as an ordered table; the first matching rule wins.
type subIntentRule struct {
	label    string
	keywords []string
}

func matchSubIntent(rules []subIntentRule, message, defaultLabel string) string {
	lower := strings.ToLower(message)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.label
			}
		}
	}
	return defaultLabel
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
