package router

import (
	"encoding/json"
	"strings"

	"careline/models"
)

// ParseTier records which recovery tier produced a routing decision from an
// LLM reply. Tests target each tier independently.
type ParseTier int

const (
	// TierParsed: the reply was the requested JSON object, nothing else.
	TierParsed ParseTier = iota
	// TierRecovered: a JSON object was recovered from surrounding prose or
	// a code fence.
	TierRecovered
	// TierHeuristic: no JSON found; the reply text itself was keyword-sniffed.
	TierHeuristic
	// TierUnclassified: the reply yielded nothing usable.
	TierUnclassified
)

// ParsedRoute is the tagged result of parsing an LLM routing reply. Decision
// is meaningful for every tier except TierUnclassified. The decision's label
// is NOT yet validated against the fixed agent set; the classifier does that.
type ParsedRoute struct {
	Tier     ParseTier
	Decision models.RoutingDecision
}

// ParseRouteReply extracts a routing decision from raw LLM output,
// attempting strict parse, recovery parse, then heuristic classification.
// Pure function.
func ParseRouteReply(reply string) ParsedRoute {
	trimmed := strings.TrimSpace(reply)

	var decision models.RoutingDecision
	if err := json.Unmarshal([]byte(trimmed), &decision); err == nil && decision.RouteTo != "" {
		return ParsedRoute{Tier: TierParsed, Decision: decision}
	}

	if d, ok := recoverJSONObject(trimmed); ok {
		return ParsedRoute{Tier: TierRecovered, Decision: d}
	}

	if label, ok := sniffKeywords(trimmed); ok {
		return ParsedRoute{
			Tier:     TierHeuristic,
			Decision: models.RoutingDecision{RouteTo: label, Reason: "keyword match in reply text"},
		}
	}

	return ParsedRoute{Tier: TierUnclassified}
}

// recoverJSONObject scans the text for brace-delimited substrings (covering
// code-fenced replies and JSON embedded in prose) and returns the first one
// that decodes with a route_to field.
func recoverJSONObject(text string) (models.RoutingDecision, bool) {
	for start := 0; start < len(text); start++ {
		if text[start] != '{' {
			continue
		}
		depth := 0
		for end := start; end < len(text); end++ {
			switch text[end] {
			case '{':
				depth++
			case '}':
				depth--
				if depth == 0 {
					var d models.RoutingDecision
					if err := json.Unmarshal([]byte(text[start:end+1]), &d); err == nil && d.RouteTo != "" {
						return d, true
					}
					// Skip past this candidate and keep scanning.
					start = end
					end = len(text)
				}
			}
		}
	}
	return models.RoutingDecision{}, false
}

// sniffKeywords maps plain-text replies ("the user wants an appointment")
// onto labels when the model ignored the JSON instruction.
func sniffKeywords(text string) (models.AgentLabel, bool) {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "appointment"), strings.Contains(lower, "doctor"):
		return models.AgentAppointment, true
	case strings.Contains(lower, "policy"), strings.Contains(lower, "hr"), strings.Contains(lower, "benefit"):
		return models.AgentHR, true
	case strings.Contains(lower, "bye"), strings.Contains(lower, "closing"), strings.Contains(lower, "goodbye"):
		return models.AgentClosing, true
	case strings.Contains(lower, "hello"), strings.Contains(lower, "greeting"):
		return models.AgentGreeting, true
	}
	return "", false
}
