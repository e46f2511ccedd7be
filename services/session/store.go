// Package session persists conversation state between turns.
package session

import (
	"context"

	"careline/models"
)

// Store is the session persistence contract. Get returns (nil, nil) when
// no session exists for the given ID; callers treat that as a fresh
// conversation rather than an error.
type Store interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Put(ctx context.Context, sess *models.Session) error
	Delete(ctx context.Context, id string) error
}
