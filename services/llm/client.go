package llm

import (
	"context"
	"errors"

	"careline/models"
)

// Failure modes of the text-generation backend. Callers treat both as
// "take the deterministic path"; the split only matters for logging.
var (
	// ErrUpstreamUnavailable means the backend could not be reached at all
	// (network failure, timeout, open circuit breaker).
	ErrUpstreamUnavailable = errors.New("llm backend unavailable")
	// ErrUpstreamError means the backend answered but the reply was unusable.
	ErrUpstreamError = errors.New("llm backend error")
)

// Options tune a single generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Client is the text-generation capability consumed by the agents and the
// router. history carries prior conversation turns for context; it may be nil.
type Client interface {
	GenerateText(ctx context.Context, prompt string, opts Options, history []models.Turn) (string, error)
}
