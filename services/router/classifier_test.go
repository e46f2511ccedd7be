package router

import (
	"context"
	"errors"
	"testing"

	"careline/models"
	"careline/services/llm"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type stubLLM struct {
	reply string
	err   error
}

func (s *stubLLM) GenerateText(context.Context, string, llm.Options, []models.Turn) (string, error) {
	return s.reply, s.err
}

func TestClassifyUsesLLMDecision(t *testing.T) {
	c := NewClassifier(&stubLLM{reply: `{"route_to": "hr", "message": "benefits"}`}, zap.NewNop())
	sess := models.NewSession("s1", nil)

	got := c.Classify(context.Background(), "tell me about dental coverage", sess)
	assert.Equal(t, models.AgentHR, got.RouteTo)
}

func TestClassifyFallsBackOnLLMError(t *testing.T) {
	c := NewClassifier(&stubLLM{err: errors.New("boom")}, zap.NewNop())
	sess := models.NewSession("s1", nil)

	got := c.Classify(context.Background(), "I want to book a doctor appointment", sess)
	assert.Equal(t, models.AgentAppointment, got.RouteTo)
}

func TestClassifyFallsBackOnUnusableReply(t *testing.T) {
	tests := []struct {
		name  string
		reply string
	}{
		{"no json no keywords", "I really could not say."},
		{"unknown label", `{"route_to": "billing", "message": "?"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(&stubLLM{reply: tt.reply}, zap.NewNop())
			sess := models.NewSession("s1", nil)

			got := c.Classify(context.Background(), "goodbye, thanks for the help", sess)
			assert.Equal(t, models.AgentClosing, got.RouteTo)
		})
	}
}

func TestClassifyAlwaysYieldsValidLabel(t *testing.T) {
	clients := []llm.Client{
		&stubLLM{err: errors.New("down")},
		&stubLLM{reply: "gibberish"},
		&stubLLM{reply: `{"route_to": "appointment", "message": "ok"}`},
		llm.Disabled{},
	}
	for _, client := range clients {
		c := NewClassifier(client, zap.NewNop())
		sess := models.NewSession("s1", nil)
		got := c.Classify(context.Background(), "anything at all", sess)
		assert.True(t, models.ValidAgentLabel(got.RouteTo))
	}
}
