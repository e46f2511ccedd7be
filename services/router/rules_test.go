package router

import (
	"testing"

	"careline/models"

	"github.com/stretchr/testify/assert"
)

func TestRuleBasedRoute(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    models.AgentLabel
	}{
		{"booking request", "I need to book an appointment with a doctor", models.AgentAppointment},
		{"availability check", "what slots are available next week", models.AgentAppointment},
		{"leave question", "what is the vacation policy", models.AgentHR},
		{"benefits question", "tell me about my insurance benefits", models.AgentHR},
		{"goodbye", "goodbye", models.AgentClosing},
		{"gratitude", "thank you so much", models.AgentClosing},
		{"greeting", "hello there", models.AgentGreeting},
		{"gibberish", "qwfp zxcv 42", models.AgentFallback},
		{"unsupported topic", "can you order me a pizza", models.AgentFallback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RuleBasedRoute(tt.message)
			assert.Equal(t, tt.want, got.RouteTo)
			assert.NotEmpty(t, got.Reason)
		})
	}
}

func TestRuleBasedRoutePrecedence(t *testing.T) {
	// Appointment keywords outrank the greeting ones when both appear.
	got := RuleBasedRoute("hello, I want to book a doctor appointment")
	assert.Equal(t, models.AgentAppointment, got.RouteTo)
}

func TestRuleBasedRouteIsTotalAndStable(t *testing.T) {
	messages := []string{
		"", " ", "???", "BOOK AN APPOINTMENT", "Goodbye!",
		"what about my 401k", "hola", "the quick brown fox",
	}
	for _, msg := range messages {
		first := RuleBasedRoute(msg)
		assert.True(t, models.ValidAgentLabel(first.RouteTo), "message %q produced invalid label %q", msg, first.RouteTo)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, RuleBasedRoute(msg))
		}
	}
}
