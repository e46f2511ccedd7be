package llm

import (
	"context"
	"fmt"

	"careline/models"
)

// Disabled is a Client for deployments without an API key. Every call
// reports the upstream as unavailable, so callers run on their rule-based
// and canned paths.
type Disabled struct{}

func (Disabled) GenerateText(context.Context, string, Options, []models.Turn) (string, error) {
	return "", fmt.Errorf("llm disabled: %w", ErrUpstreamUnavailable)
}
