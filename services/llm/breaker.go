package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"careline/models"

	"github.com/sony/gobreaker/v2"
)

// BreakerClient wraps a Client in a circuit breaker. When the backend keeps
// failing the breaker opens and calls fail fast with ErrUpstreamUnavailable,
// so conversation turns degrade to the deterministic path without waiting
// out a timeout on every message.
type BreakerClient struct {
	inner   Client
	breaker *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps inner. The breaker opens after five consecutive
// failures and probes again after 30 seconds.
func NewBreakerClient(inner Client) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        "llm",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &BreakerClient{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[string](settings),
	}
}

func (b *BreakerClient) GenerateText(ctx context.Context, prompt string, opts Options, history []models.Turn) (string, error) {
	out, err := b.breaker.Execute(func() (string, error) {
		return b.inner.GenerateText(ctx, prompt, opts, history)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: circuit open", ErrUpstreamUnavailable)
	}
	return out, err
}
