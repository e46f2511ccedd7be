package router

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"careline/models"
	"careline/services/llm"

	"go.uber.org/zap"
)

// How many prior turns are quoted in the routing prompt.
const contextWindow = 4

// Classifier decides which agent should handle a message. It asks the LLM
// first and falls back to rule-based keyword routing whenever the LLM is
// unreachable or replies with something unusable, so classification is
// total: Classify never fails and always yields a valid agent label.
type Classifier struct {
	llm    llm.Client
	logger *zap.Logger
}

func NewClassifier(client llm.Client, logger *zap.Logger) *Classifier {
	return &Classifier{llm: client, logger: logger}
}

// Classify routes a message given the session so far.
func (c *Classifier) Classify(ctx context.Context, message string, sess *models.Session) models.RoutingDecision {
	prompt := buildRoutingPrompt(message, sess)

	reply, err := c.llm.GenerateText(ctx, prompt, llm.Options{
		// Low temperature: this is a classification, not prose.
		Temperature: 0.3,
		MaxTokens:   100,
	}, nil)
	if err != nil {
		c.logger.Warn("routing LLM call failed, using rule-based routing",
			zap.Error(err), zap.String("session", sess.ID))
		return RuleBasedRoute(message)
	}

	parsed := ParseRouteReply(reply)
	if parsed.Tier == TierUnclassified || !models.ValidAgentLabel(parsed.Decision.RouteTo) {
		c.logger.Warn("unusable routing decision, using rule-based routing",
			zap.String("reply", reply), zap.String("session", sess.ID))
		return RuleBasedRoute(message)
	}

	c.logger.Debug("router decision",
		zap.String("route_to", string(parsed.Decision.RouteTo)),
		zap.String("reason", parsed.Decision.Reason),
		zap.Int("tier", int(parsed.Tier)))
	return parsed.Decision
}

func buildRoutingPrompt(message string, sess *models.Session) string {
	var b strings.Builder
	b.WriteString(`You are an intelligent router for a hospital call center. Analyze the user's message and determine which specialized agent should handle their request.

Available agents and their responsibilities:
- "greeting": Welcome messages, general help requests, service overviews
- "appointment": Doctor appointment scheduling, booking, canceling, availability checks
- "hr": HR policies, employee benefits, leave requests, timesheet questions
- "closing": Conversation endings, goodbyes, thank you messages
- "fallback": Unclear requests, unsupported topics, when no other agent fits

`)
	fmt.Fprintf(&b, "User's current message: %q\n\n", message)
	b.WriteString(buildConversationContext(sess))
	b.WriteString(`

Respond with ONLY a JSON object in this exact format:
{"route_to": "agent_name", "message": "brief reason for routing"}`)
	return b.String()
}

func buildConversationContext(sess *models.Session) string {
	if len(sess.History) == 0 {
		return "This is the first message in the conversation."
	}

	var b strings.Builder
	b.WriteString("Recent conversation context:\n")
	for _, t := range sess.RecentHistory(contextWindow) {
		fmt.Fprintf(&b, "%s: %q\n", t.Role, t.Content)
	}

	active := "none"
	if sess.ActiveAgent != "" {
		active = string(sess.ActiveAgent)
	}
	fmt.Fprintf(&b, "\nCurrent agent: %s\n", active)
	if ctxJSON, err := json.Marshal(sess.Context); err == nil {
		fmt.Fprintf(&b, "Session context: %s", ctxJSON)
	}
	return b.String()
}
