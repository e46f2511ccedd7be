package router

import (
	"strings"

	"careline/models"
)

// keywordGroup maps a set of trigger words to an agent label. Groups are
// checked in order; the first hit wins.
type keywordGroup struct {
	label    models.AgentLabel
	reason   string
	keywords []string
}

var ruleGroups = []keywordGroup{
	{
		label:  models.AgentAppointment,
		reason: "appointment-related keywords detected",
		keywords: []string{
			"appointment", "doctor", "schedule", "book", "available", "slot",
			"medical", "visit", "consultation", "dr.", "physician",
		},
	},
	{
		label:  models.AgentHR,
		reason: "hr-related keywords detected",
		keywords: []string{
			"hr", "human resources", "policy", "leave", "vacation", "sick day",
			"benefits", "insurance", "timesheet", "payroll", "employee", "handbook",
		},
	},
	{
		label:  models.AgentClosing,
		reason: "conversation ending detected",
		keywords: []string{
			"bye", "goodbye", "thank you", "thanks", "done", "finished",
			"end", "that's all", "have a good",
		},
	},
	{
		label:  models.AgentGreeting,
		reason: "greeting or help request detected",
		keywords: []string{
			"hello", "hi", "hey", "good morning", "good afternoon",
			"help", "start", "greetings",
		},
	},
}

// RuleBasedRoute classifies a message by ordered keyword matching. It is a
// pure function of the message and is total: every input maps to a label,
// defaulting to fallback. This is the router's behavior whenever the LLM
// path is unavailable or produces an unusable reply.
func RuleBasedRoute(message string) models.RoutingDecision {
	lower := strings.ToLower(message)
	for _, g := range ruleGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return models.RoutingDecision{RouteTo: g.label, Reason: g.reason}
			}
		}
	}
	return models.RoutingDecision{RouteTo: models.AgentFallback, Reason: "no clear intent detected"}
}
