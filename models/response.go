package models

// AgentResponse is what an agent hands back to the dispatcher for one turn.
// Message is always non-empty; agents substitute a canned reply on internal
// failure rather than returning an error. ContextPatch is shallow-merged
// into the session context by the dispatcher. Slots is populated only when
// the appointment agent surfaces bookable options.
type AgentResponse struct {
	Message      string            `json:"message"`
	Agent        AgentLabel        `json:"agent"`
	ContextPatch map[string]any    `json:"context,omitempty"`
	Slots        []AppointmentSlot `json:"slots,omitempty"`
}

// TurnResult is the boundary shape returned to the HTTP layer for one turn.
type TurnResult struct {
	Message   string            `json:"message"`
	Agent     AgentLabel        `json:"agent"`
	SessionID string            `json:"sessionId"`
	Context   map[string]any    `json:"context"`
	Slots     []AppointmentSlot `json:"slots,omitempty"`
	History   []Turn            `json:"conversationHistory"`
}
