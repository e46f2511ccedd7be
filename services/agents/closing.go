package agents

import (
	"context"
	"fmt"
	"strings"

	"careline/models"
	"careline/services/llm"

	"go.uber.org/zap"
)

// A conversation longer than this many turns triggers a feedback request on
// close instead of a plain goodbye.
const longConversationTurns = 8

// ClosingAgent wraps up conversations: goodbyes, satisfaction checks and
// final assistance offers.
type ClosingAgent struct {
	llm    llm.Client
	logger *zap.Logger
}

func NewClosingAgent(client llm.Client, logger *zap.Logger) *ClosingAgent {
	return &ClosingAgent{llm: client, logger: logger}
}

func (a *ClosingAgent) Label() models.AgentLabel { return models.AgentClosing }

var closingSubIntents = []subIntentRule{
	{label: "final_goodbye", keywords: []string{"bye", "goodbye", "see you", "have a good"}},
	{label: "offer_additional_help", keywords: []string{"thank", "thanks"}},
	{label: "satisfaction_check", keywords: []string{"done", "that's all", "finished", "nothing else"}},
}

func (a *ClosingAgent) Handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	subIntent := matchSubIntent(closingSubIntents, message, "")
	if subIntent == "" {
		if len(sess.History) > longConversationTurns {
			subIntent = "feedback_request"
		} else {
			subIntent = "general_closing"
		}
	}

	var prompt string
	opts := llm.Options{Temperature: 0.7, MaxTokens: 200}

	switch subIntent {
	case "final_goodbye":
		opts = llm.Options{Temperature: 0.8, MaxTokens: 150}
		prompt = fmt.Sprintf(`The user is saying goodbye: %q

Respond with a warm, professional farewell: thank them for contacting the hospital call center, wish them well, and mention they can contact us again if needed. Keep it brief and sincere.`, message)

	case "offer_additional_help":
		prompt = fmt.Sprintf(`The user thanked you: %q

Acknowledge their thanks warmly, say you were happy to help, and ask if there's anything else they need, such as appointments, HR questions, or other services.`, message)

	case "satisfaction_check":
		prompt = fmt.Sprintf(`You are a call center closing agent. The user indicated they're done: %q

Conversation summary: %s

Acknowledge their completion, briefly summarize what was accomplished, ask if they're satisfied with the assistance, and give a warm closing.`,
			message, conversationSummary(sess))

	case "feedback_request":
		prompt = fmt.Sprintf(`You are a call center closing agent. A longer conversation is ending: %q

Thank them for their time, ask if there's anything else you can help with, mention that their feedback is valuable for improving the service, and give a warm closing. Keep it concise.`, message)

	default:
		prompt = fmt.Sprintf(`You are a call center closing agent. The user said: %q

This seems like a closing message. Acknowledge it, check if they need anything else (appointment scheduling, HR support, general inquiries), and provide a professional closing.`, message)
	}

	reply, err := a.llm.GenerateText(ctx, prompt, opts, sess.History)
	if err != nil {
		a.logger.Warn("closing agent LLM failure", zap.Error(err), zap.String("session", sess.ID))
		reply = "Thank you for contacting us today! Is there anything else I can help you with? Have a wonderful day!"
	}

	return models.AgentResponse{
		Message: reply,
		Agent:   models.AgentClosing,
		ContextPatch: map[string]any{
			"closing_type":        subIntent,
			"conversation_ending": true,
		},
	}
}

// conversationSummary reads the accumulated context flags to recap what the
// session covered, for embedding in closing prompts.
func conversationSummary(sess *models.Session) string {
	var topics []string
	if sess.ContextBool("booking_confirmed") || sess.ContextBool("booking_in_progress") {
		topics = append(topics, "appointment scheduling")
	}
	if sess.ContextBool("information_provided") {
		topics = append(topics, "HR assistance")
	}
	if sess.ContextBool("greeted") {
		topics = append(topics, "general inquiry")
	}
	if len(topics) == 0 {
		return "General assistance provided"
	}
	return "Assistance provided with: " + strings.Join(topics, ", ")
}
