package agents

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"careline/config"
	"careline/models"
	"careline/services/llm"

	"go.uber.org/zap"
)

// FallbackAgent handles unclear, unsupported, or unknown requests. Before
// its own sub-intent logic it runs a medical-vocabulary pre-check: clearly
// on-topic hospital queries that the router dumped into the catch-all are
// rerouted to the appointment agent instead of being treated as noise.
type FallbackAgent struct {
	llm     llm.Client
	medical *AppointmentAgent
	logger  *zap.Logger
}

func NewFallbackAgent(client llm.Client, medical *AppointmentAgent, logger *zap.Logger) *FallbackAgent {
	return &FallbackAgent{llm: client, medical: medical, logger: logger}
}

func (a *FallbackAgent) Label() models.AgentLabel { return models.AgentFallback }

var medicalKeywords = []string{
	"doctor", "appointment", "hospital", "medical", "health", "sick", "pain",
	"symptom", "medicine", "prescription", "clinic", "emergency", "surgery",
	"diabetes", "blood", "heart", "cancer", "fever", "headache", "injury",
	"treatment", "therapy", "diagnosis", "specialist", "cardiology", "neurology",
	"pediatrics", "orthopedics", "dermatology", "urgent care", "checkup",
}

var technicalKeywords = []string{"error", "bug", "not working", "broken"}

var humanKeywords = []string{"human", "person", "representative", "manager", "speak to someone"}

var foreignGreetings = []string{
	"hola", "bonjour", "guten tag", "ciao", "konnichiwa", "namaste",
}

var unsupportedKeywords = []string{
	"billing", "payment", "invoice", "account balance",
	"technical support", "it help", "password reset",
	"product return", "shipping", "delivery",
	"legal advice", "financial advice",
}

func (a *FallbackAgent) Handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	lower := strings.ToLower(message)

	if containsAny(lower, medicalKeywords) {
		a.logger.Debug("rerouting medical query from fallback", zap.String("session", sess.ID))
		resp := a.medical.Handle(ctx, message, sess)
		resp.ContextPatch["medical_query_handled"] = true
		return resp
	}

	switch a.fallbackType(message, lower) {
	case "technical_issue":
		return a.respond(ctx, sess, "technical_issue", fmt.Sprintf(`The user is reporting a technical issue: %q

Acknowledge the issue, apologize for the inconvenience, suggest basic troubleshooting if appropriate, and provide alternative contact methods: phone %s, email %s. Offer to help with other matters meanwhile.`,
			message, config.AppConfig.HospitalPhone, config.AppConfig.SupportEmail))

	case "redirect_to_human":
		return a.respond(ctx, sess, "human_redirect", fmt.Sprintf(`The user wants to speak with a human representative: %q

Respect their preference. Provide the contact details for human assistance: phone %s, email %s, office hours Monday-Friday 9:00 AM - 5:00 PM. Offer to help with anything urgent while they wait.`,
			message, config.AppConfig.HospitalPhone, config.AppConfig.SupportEmail))

	case "unclear_request":
		return a.respond(ctx, sess, "unclear_request", fmt.Sprintf(`The user sent an unclear or very brief message: %q

Politely acknowledge it, ask them to clarify what they need, and mention the main services available: doctor appointments, HR questions, general support. Be patient, not critical.`, message))

	case "language_barrier":
		// Static reply: an LLM response here would likely come back in the
		// wrong language too.
		return models.AgentResponse{
			Message: fmt.Sprintf("I understand you may be more comfortable in a different language. For assistance in languages other than English, please call %s (multilingual support available during business hours) or email %s. If you'd like to continue in English, I can help with doctor appointments, HR questions, and general inquiries.",
				config.AppConfig.HospitalPhone, config.AppConfig.SupportEmail),
			Agent:        models.AgentFallback,
			ContextPatch: map[string]any{"fallback_type": "language_barrier", "fallback_handled": true},
		}

	case "unsupported_service":
		return a.respond(ctx, sess, "unsupported_service", fmt.Sprintf(`The user is asking about a service we don't support through this channel: %q

Acknowledge the request, explain this channel can't help with it, suggest alternatives where possible, and redirect to what you can help with: doctor appointments, HR questions, general inquiries.`, message))

	default:
		return a.respond(ctx, sess, "general_fallback", fmt.Sprintf(`The user sent a message that doesn't fit our available services: %q

Acknowledge their message, explain what you can help with (doctor appointment scheduling, HR policy questions, general inquiries), and ask them to clarify their needs.`, message))
	}
}

// fallbackType picks the sub-intent, ordered by priority.
func (a *FallbackAgent) fallbackType(message, lower string) string {
	if containsAny(lower, technicalKeywords) {
		return "technical_issue"
	}
	if containsAny(lower, humanKeywords) {
		return "redirect_to_human"
	}
	if len(message) < 3 || !hasLetter(message) {
		return "unclear_request"
	}
	if isLikelyNonEnglish(message, lower) {
		return "language_barrier"
	}
	if containsAny(lower, unsupportedKeywords) {
		return "unsupported_service"
	}
	return "general_fallback"
}

func (a *FallbackAgent) respond(ctx context.Context, sess *models.Session, fallbackType, prompt string) models.AgentResponse {
	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{Temperature: 0.7, MaxTokens: 250}, sess.History)
	if err != nil {
		a.logger.Warn("fallback agent LLM failure", zap.Error(err), zap.String("session", sess.ID))
		reply = a.emergencyFallback()
	}

	return models.AgentResponse{
		Message:      reply,
		Agent:        models.AgentFallback,
		ContextPatch: map[string]any{"fallback_type": fallbackType, "fallback_handled": true},
	}
}

func (a *FallbackAgent) emergencyFallback() string {
	return fmt.Sprintf("I apologize, but I'm having some difficulty right now. For immediate assistance, please contact our support team at %s or %s (Monday-Friday, 9:00 AM - 5:00 PM). Thank you for your patience.",
		config.AppConfig.HospitalPhone, config.AppConfig.SupportEmail)
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

// isLikelyNonEnglish is a cheap heuristic: any non-ASCII character or a
// well-known foreign greeting.
func isLikelyNonEnglish(message, lower string) bool {
	for _, r := range message {
		if r > unicode.MaxASCII {
			return true
		}
	}
	return containsAny(lower, foreignGreetings)
}
