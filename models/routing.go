package models

// AgentLabel identifies one of the specialized conversation agents.
type AgentLabel string

const (
	AgentGreeting    AgentLabel = "greeting"
	AgentAppointment AgentLabel = "appointment"
	AgentHR          AgentLabel = "hr"
	AgentClosing     AgentLabel = "closing"
	AgentFallback    AgentLabel = "fallback"
)

// AgentLabels is the closed set of routable agents.
var AgentLabels = []AgentLabel{
	AgentGreeting,
	AgentAppointment,
	AgentHR,
	AgentClosing,
	AgentFallback,
}

// ValidAgentLabel reports whether l is a member of the fixed label set.
func ValidAgentLabel(l AgentLabel) bool {
	switch l {
	case AgentGreeting, AgentAppointment, AgentHR, AgentClosing, AgentFallback:
		return true
	}
	return false
}

// RoutingDecision is the classifier's verdict for one message. Reason is
// for logging only and never shown to the user.
type RoutingDecision struct {
	RouteTo AgentLabel `json:"route_to"`
	Reason  string     `json:"message"`
}
