package agents

import (
	"context"
	"fmt"

	"careline/config"
	"careline/models"
	"careline/services/llm"

	"go.uber.org/zap"
)

// GreetingAgent welcomes callers and captures initial intent. The dispatcher
// decides once whether a turn is the conversation opener: it calls
// HandleWelcome on the very first turn and Handle for greetings that show up
// mid-conversation.
type GreetingAgent struct {
	llm    llm.Client
	logger *zap.Logger
}

func NewGreetingAgent(client llm.Client, logger *zap.Logger) *GreetingAgent {
	return &GreetingAgent{llm: client, logger: logger}
}

func (a *GreetingAgent) Label() models.AgentLabel { return models.AgentGreeting }

// HandleWelcome produces the full first-turn welcome with a service menu,
// regardless of what the user actually typed.
func (a *GreetingAgent) HandleWelcome(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	prompt := fmt.Sprintf(`You are a friendly and professional assistant for a hospital call center. This is the user's first message: %q

Your role is to:
1. Warmly welcome the user
2. Acknowledge their message
3. Briefly explain what services are available: doctor appointment scheduling, HR policy questions and support, general inquiries
4. Ask how you can help them today

Keep your response friendly, professional, and concise (2-3 sentences max).`, message)

	return a.respond(ctx, prompt, sess, map[string]any{"greeted": true})
}

// Handle responds to a greeting during an ongoing conversation with a brief
// re-orientation instead of the full welcome.
func (a *GreetingAgent) Handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	prompt := fmt.Sprintf(`You are a friendly hospital call center assistant. The user said: %q

This is a greeting or general message during an ongoing conversation. Respond briefly and redirect them to how you can help with appointments, HR questions, or other services.`, message)

	return a.respond(ctx, prompt, sess, map[string]any{"greeted": true})
}

func (a *GreetingAgent) respond(ctx context.Context, prompt string, sess *models.Session, patch map[string]any) models.AgentResponse {
	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{
		// Slightly more creative for friendly greetings.
		Temperature: 0.8,
		MaxTokens:   200,
	}, sess.History)
	if err != nil {
		a.logger.Warn("greeting agent LLM failure", zap.Error(err), zap.String("session", sess.ID))
		reply = fallbackGreeting()
		patch["error"] = true
	}

	return models.AgentResponse{
		Message:      reply,
		Agent:        models.AgentGreeting,
		ContextPatch: patch,
	}
}

func fallbackGreeting() string {
	return fmt.Sprintf("Hello! Welcome to our hospital call center. I can help you with doctor appointments, HR policy questions, or other inquiries. If you prefer to speak with someone directly, call %s. How can I assist you today?",
		config.AppConfig.HospitalPhone)
}
