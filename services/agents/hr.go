package agents

import (
	"context"
	"fmt"
	"strings"

	"careline/config"
	"careline/database/repository/hospital"
	"careline/models"
	"careline/services/llm"

	"go.uber.org/zap"
)

// HRAgent answers HR policy questions, benefits, and employee support from
// the HR knowledge base.
type HRAgent struct {
	llm    llm.Client
	repo   hospital.Repo
	logger *zap.Logger
}

func NewHRAgent(client llm.Client, repo hospital.Repo, logger *zap.Logger) *HRAgent {
	return &HRAgent{llm: client, repo: repo, logger: logger}
}

func (a *HRAgent) Label() models.AgentLabel { return models.AgentHR }

var hrSubIntents = []subIntentRule{
	{label: "leave_policy", keywords: []string{"leave", "vacation", "sick day", "time off", "pto", "parental"}},
	{label: "benefits", keywords: []string{"benefits", "insurance", "401k", "health", "dental", "retirement"}},
	{label: "timesheet", keywords: []string{"timesheet", "hours", "overtime", "time tracking"}},
	{label: "company_policy", keywords: []string{"policy", "handbook", "dress code", "remote work", "harassment", "training"}},
	{label: "contact_hr", keywords: []string{"contact hr", "speak to hr", "hr department", "hr representative"}},
}

// Which knowledge-base category backs each sub-intent.
var hrCategoryFor = map[string]string{
	"leave_policy":   "leave",
	"benefits":       "benefits",
	"timesheet":      "timesheet",
	"company_policy": "policies",
}

// Topic keywords narrow the category down to the entries the caller asked about.
var hrTopicKeywords = map[string][]string{
	"vacation":    {"vacation", "pto"},
	"sick":        {"sick"},
	"personal":    {"personal"},
	"parental":    {"parental", "maternity", "paternity"},
	"health":      {"health", "medical", "dental", "vision"},
	"retirement":  {"401k", "retirement"},
	"life":        {"life insurance"},
	"disability":  {"disability"},
	"submission":  {"submit", "deadline", "friday"},
	"overtime":    {"overtime"},
	"remote":      {"remote"},
	"dress_code":  {"dress", "attire"},
	"remote_work": {"remote", "work from home"},
	"harassment":  {"harassment"},
	"training":    {"training"},
}

func (a *HRAgent) Handle(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	subIntent := matchSubIntent(hrSubIntents, message, "general_hr")

	if subIntent == "contact_hr" {
		return a.handleContactRequest(ctx, message, sess)
	}

	policies, err := a.repo.HRPolicies(ctx)
	if err != nil {
		a.logger.Error("hr policy lookup failed", zap.Error(err))
		return a.cannedFallback(sess)
	}

	var prompt string
	if category, ok := hrCategoryFor[subIntent]; ok {
		prompt = fmt.Sprintf(`You are an HR assistant for a hospital. The user asked: %q

Relevant policy information:
%s

Provide a helpful, specific answer based on this information. Mention that requests go through the employee portal or HR. Keep it informative but conversational.`,
			message, relevantPolicyText(policies, category, message))
	} else {
		prompt = fmt.Sprintf(`You are an HR assistant for a hospital. The user has an HR-related question: %q

You can help with: leave policies (vacation, sick leave, personal days), benefits (health insurance, 401k, life insurance), timesheet questions, and company policies.

Respond helpfully and ask what specific HR topic they need assistance with.`, message)
	}

	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{
		// Factual domain: keep the sampling conservative.
		Temperature: 0.6,
		MaxTokens:   300,
	}, sess.History)
	if err != nil {
		a.logger.Warn("hr agent LLM failure", zap.Error(err))
		return a.cannedFallback(sess)
	}

	return models.AgentResponse{
		Message:      reply,
		Agent:        models.AgentHR,
		ContextPatch: map[string]any{"query_type": subIntent, "information_provided": true},
	}
}

func (a *HRAgent) handleContactRequest(ctx context.Context, message string, sess *models.Session) models.AgentResponse {
	info, err := a.repo.CompanyInfo(ctx)
	if err != nil {
		a.logger.Error("company info lookup failed", zap.Error(err))
		return a.cannedFallback(sess)
	}

	prompt := fmt.Sprintf(`The user wants to contact HR directly: %q

HR Department contact information:
- Email: %s
- Phone: %s, extension %s
- Office hours: %s

Provide the contact information and ask if there's anything you can help them with first.`,
		message, info.HREmail, info.Phone, info.HRExtension, info.OfficeHours)

	reply, err := a.llm.GenerateText(ctx, prompt, llm.Options{Temperature: 0.6, MaxTokens: 200}, sess.History)
	if err != nil {
		a.logger.Warn("hr agent LLM failure", zap.Error(err))
		reply = fmt.Sprintf("You can reach HR at %s or by phone at %s, extension %s (%s). Is there anything I can help you with in the meantime?",
			info.HREmail, info.Phone, info.HRExtension, info.OfficeHours)
	}

	return models.AgentResponse{
		Message:      reply,
		Agent:        models.AgentHR,
		ContextPatch: map[string]any{"query_type": "contact_hr", "contact_info_provided": true},
	}
}

// relevantPolicyText picks the knowledge-base entries for a category,
// narrowed by topic keywords when the message names one. With no topic
// match, the whole category is included.
func relevantPolicyText(policies []models.HRPolicy, category, message string) string {
	lower := strings.ToLower(message)

	var matched, all []string
	for _, p := range policies {
		if p.Category != category {
			continue
		}
		line := fmt.Sprintf("%s: %s", strings.ReplaceAll(p.Topic, "_", " "), p.Text)
		all = append(all, line)
		if containsAny(lower, hrTopicKeywords[p.Topic]) {
			matched = append(matched, line)
		}
	}
	if len(matched) > 0 {
		return strings.Join(matched, "\n\n")
	}
	return strings.Join(all, "\n\n")
}

func (a *HRAgent) cannedFallback(sess *models.Session) models.AgentResponse {
	return models.AgentResponse{
		Message: fmt.Sprintf("I apologize, but I'm having trouble accessing the HR information right now. Please contact HR directly at %s or extension %s for immediate assistance.",
			config.AppConfig.HREmail, config.AppConfig.HRExtension),
		Agent:        models.AgentHR,
		ContextPatch: map[string]any{"error": true},
	}
}
