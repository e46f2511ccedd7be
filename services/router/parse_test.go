package router

import (
	"testing"

	"careline/models"

	"github.com/stretchr/testify/assert"
)

func TestParseRouteReplyStrict(t *testing.T) {
	got := ParseRouteReply(`{"route_to": "hr", "message": "employee benefits question"}`)
	assert.Equal(t, TierParsed, got.Tier)
	assert.Equal(t, models.AgentHR, got.Decision.RouteTo)
	assert.Equal(t, "employee benefits question", got.Decision.Reason)
}

func TestParseRouteReplyCodeFence(t *testing.T) {
	reply := "```json\n{\"route_to\": \"appointment\", \"message\": \"wants to book\"}\n```"
	got := ParseRouteReply(reply)
	assert.Equal(t, TierRecovered, got.Tier)
	assert.Equal(t, models.AgentAppointment, got.Decision.RouteTo)
}

func TestParseRouteReplyEmbeddedInProse(t *testing.T) {
	reply := `Sure! Based on the message I would say {"route_to": "closing", "message": "saying goodbye"} is the right choice.`
	got := ParseRouteReply(reply)
	assert.Equal(t, TierRecovered, got.Tier)
	assert.Equal(t, models.AgentClosing, got.Decision.RouteTo)
}

func TestParseRouteReplySkipsBadCandidates(t *testing.T) {
	// The first brace-delimited chunk is not valid JSON; the parser keeps
	// scanning and picks up the real object.
	reply := `{broken} but also {"route_to": "greeting", "message": "says hi"}`
	got := ParseRouteReply(reply)
	assert.Equal(t, TierRecovered, got.Tier)
	assert.Equal(t, models.AgentGreeting, got.Decision.RouteTo)
}

func TestParseRouteReplyHeuristic(t *testing.T) {
	got := ParseRouteReply("The user clearly wants to see a doctor for an appointment.")
	assert.Equal(t, TierHeuristic, got.Tier)
	assert.Equal(t, models.AgentAppointment, got.Decision.RouteTo)
}

func TestParseRouteReplyUnclassified(t *testing.T) {
	for _, reply := range []string{"", "I cannot decide.", "42"} {
		got := ParseRouteReply(reply)
		assert.Equal(t, TierUnclassified, got.Tier, "reply %q", reply)
	}
}

func TestParseRouteReplyDoesNotValidateLabel(t *testing.T) {
	// Unknown labels pass through; the classifier rejects them.
	got := ParseRouteReply(`{"route_to": "billing", "message": "?"}`)
	assert.Equal(t, TierParsed, got.Tier)
	assert.False(t, models.ValidAgentLabel(got.Decision.RouteTo))
}
