package models

import "time"

// Turn roles. The history only ever contains these two.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single utterance in a conversation.
type Turn struct {
	Role    string `json:"role" bson:"role"`
	Content string `json:"content" bson:"content"`
}

// Session is the per-conversation state. History is append-only; Context
// accumulates shallow-merged patches from the agents handling each turn.
type Session struct {
	ID          string         `json:"id"`
	History     []Turn         `json:"history"`
	ActiveAgent AgentLabel     `json:"activeAgent,omitempty"`
	Context     map[string]any `json:"context"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// NewSession creates an empty session for a conversation key. seed may carry
// client-supplied prior turns (e.g. a browser restoring a conversation).
func NewSession(id string, seed []Turn) *Session {
	return &Session{
		ID:      id,
		History: append([]Turn(nil), seed...),
		Context: make(map[string]any),
	}
}

// RecentHistory returns up to the last n turns.
func (s *Session) RecentHistory(n int) []Turn {
	if len(s.History) <= n {
		return s.History
	}
	return s.History[len(s.History)-n:]
}

// Append records a completed exchange on the history.
func (s *Session) Append(userMsg, assistantMsg string) {
	s.History = append(s.History,
		Turn{Role: RoleUser, Content: userMsg},
		Turn{Role: RoleAssistant, Content: assistantMsg},
	)
}

// MergeContext shallow-merges a context patch; last write per key wins.
func (s *Session) MergeContext(patch map[string]any) {
	if s.Context == nil {
		s.Context = make(map[string]any)
	}
	for k, v := range patch {
		s.Context[k] = v
	}
}

// ContextString returns the string value stored under key, if any.
func (s *Session) ContextString(key string) (string, bool) {
	v, ok := s.Context[key]
	if !ok {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

// ContextBool reports whether key holds a true flag.
func (s *Session) ContextBool(key string) bool {
	v, ok := s.Context[key]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	return ok && b
}
