package dispatch

import (
	"context"
	"errors"
	"testing"

	"careline/config"
	"careline/models"
	"careline/services/agents"
	"careline/services/llm"
	"careline/services/router"
	"careline/services/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	config.AppConfig.HospitalPhone = "(555) 123-4567"
	config.AppConfig.SupportEmail = "support@careline.example.com"
	config.AppConfig.HREmail = "hr@careline.example.com"
	config.AppConfig.HRExtension = "1234"
}

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) GenerateText(context.Context, string, llm.Options, []models.Turn) (string, error) {
	return s.reply, s.err
}

// scriptedAgent returns a fixed response under a given label.
type scriptedAgent struct {
	label models.AgentLabel
	resp  models.AgentResponse
}

func (a *scriptedAgent) Label() models.AgentLabel { return a.label }
func (a *scriptedAgent) Handle(context.Context, string, *models.Session) models.AgentResponse {
	return a.resp
}

type panickyAgent struct {
	label models.AgentLabel
}

func (a *panickyAgent) Label() models.AgentLabel { return a.label }
func (a *panickyAgent) Handle(context.Context, string, *models.Session) models.AgentResponse {
	panic("agent exploded")
}

func newTestService(client llm.Client, rest []agents.Agent) (*Service, session.Store) {
	logger := zap.NewNop()
	store := session.NewMemoryStore()
	classifier := router.NewClassifier(client, logger)
	greeting := agents.NewGreetingAgent(client, logger)
	return NewService(store, classifier, greeting, rest, logger), store
}

func agentFor(label models.AgentLabel, msg string) *scriptedAgent {
	return &scriptedAgent{
		label: label,
		resp: models.AgentResponse{
			Message:      msg,
			Agent:        label,
			ContextPatch: map[string]any{"handled_by": string(label)},
		},
	}
}

func defaultAgents() []agents.Agent {
	return []agents.Agent{
		agentFor(models.AgentAppointment, "appointment reply"),
		agentFor(models.AgentHR, "hr reply"),
		agentFor(models.AgentClosing, "closing reply"),
		agentFor(models.AgentFallback, "fallback reply"),
	}
}

func TestFirstTurnAlwaysGreets(t *testing.T) {
	// The router would send this to the appointment agent, but the very
	// first turn of a conversation opens with the welcome flow.
	svc, _ := newTestService(&stubLLM{err: errors.New("down")}, defaultAgents())

	result := svc.Turn(context.Background(), "", "book me a doctor appointment", nil)
	assert.Equal(t, models.AgentGreeting, result.Agent)
	assert.NotEmpty(t, result.SessionID)
	assert.Equal(t, true, result.Context["greeted"])
	require.Len(t, result.History, 2)
	assert.Equal(t, models.RoleUser, result.History[0].Role)
	assert.Equal(t, models.RoleAssistant, result.History[1].Role)
}

func TestSecondTurnRoutesByMessage(t *testing.T) {
	svc, _ := newTestService(&stubLLM{err: errors.New("down")}, defaultAgents())

	first := svc.Turn(context.Background(), "", "hello", nil)
	second := svc.Turn(context.Background(), first.SessionID, "I want to book a doctor appointment", nil)

	assert.Equal(t, models.AgentAppointment, second.Agent)
	assert.Equal(t, "appointment reply", second.Message)
	assert.Len(t, second.History, 4)
}

func TestContextAccumulatesAcrossTurns(t *testing.T) {
	svc, store := newTestService(&stubLLM{err: errors.New("down")}, defaultAgents())

	first := svc.Turn(context.Background(), "", "hello", nil)
	svc.Turn(context.Background(), first.SessionID, "what's the leave policy", nil)

	sess, err := store.Get(context.Background(), first.SessionID)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, true, sess.Context["greeted"])
	assert.Equal(t, "hr", sess.Context["handled_by"])
	assert.Equal(t, models.AgentHR, sess.ActiveAgent)
	assert.False(t, sess.UpdatedAt.IsZero())
}

func TestUnknownLabelFallsBackToFallbackAgent(t *testing.T) {
	// The LLM invents an agent that doesn't exist; ParseRouteReply passes it
	// through, the classifier validates, and the rule-based route for this
	// message is also nothing, so the fallback agent handles it.
	svc, _ := newTestService(&stubLLM{reply: `{"route_to": "billing", "message": "?"}`}, defaultAgents())

	first := svc.Turn(context.Background(), "", "hello", nil)
	second := svc.Turn(context.Background(), first.SessionID, "zzz qqq", nil)
	assert.Equal(t, models.AgentFallback, second.Agent)
}

func TestResultAgentIsAlwaysKnown(t *testing.T) {
	svc, _ := newTestService(&stubLLM{err: errors.New("down")}, defaultAgents())

	sessionID := ""
	for _, msg := range []string{"hi", "book a doctor", "vacation policy?", "qqq", "bye"} {
		result := svc.Turn(context.Background(), sessionID, msg, nil)
		sessionID = result.SessionID
		assert.True(t, models.ValidAgentLabel(result.Agent), "message %q", msg)
	}
}

func TestPanicInAgentYieldsApology(t *testing.T) {
	rest := []agents.Agent{
		&panickyAgent{label: models.AgentAppointment},
		agentFor(models.AgentHR, "hr reply"),
		agentFor(models.AgentClosing, "closing reply"),
		agentFor(models.AgentFallback, "fallback reply"),
	}
	svc, _ := newTestService(&stubLLM{err: errors.New("down")}, rest)

	first := svc.Turn(context.Background(), "", "hello", nil)
	second := svc.Turn(context.Background(), first.SessionID, "book a doctor appointment", nil)

	assert.Equal(t, models.AgentFallback, second.Agent)
	assert.Equal(t, true, second.Context["error"])
	assert.Equal(t, first.SessionID, second.SessionID)
	assert.NotEmpty(t, second.Message)
}

func TestClientHistorySeedsNewSessionOnly(t *testing.T) {
	svc, _ := newTestService(&stubLLM{err: errors.New("down")}, defaultAgents())

	seed := []models.Turn{
		{Role: models.RoleUser, Content: "hello"},
		{Role: models.RoleAssistant, Content: "hi, how can I help?"},
	}
	result := svc.Turn(context.Background(), "restored", "I want to book a doctor appointment", seed)

	// Seeded history means this is not the first turn, so no forced welcome.
	assert.Equal(t, models.AgentAppointment, result.Agent)
	assert.Len(t, result.History, 4)

	// A later turn ignores client history because the server session exists.
	again := svc.Turn(context.Background(), "restored", "goodbye", seed)
	assert.Len(t, again.History, 6)
}

func TestDeleteSessionResetsConversation(t *testing.T) {
	svc, store := newTestService(&stubLLM{err: errors.New("down")}, defaultAgents())

	first := svc.Turn(context.Background(), "", "hello", nil)
	require.NoError(t, store.Delete(context.Background(), first.SessionID))

	// With the session gone the next turn is a fresh conversation opener.
	next := svc.Turn(context.Background(), first.SessionID, "book a doctor", nil)
	assert.Equal(t, models.AgentGreeting, next.Agent)
	assert.Len(t, next.History, 2)
}
