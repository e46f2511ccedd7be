package session

import (
	"context"
	"sync"

	"careline/models"
)

// MemoryStore is an in-process Store for development and tests. It does
// not expire sessions.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, nil
	}
	cp := *sess
	cp.History = append([]models.Turn(nil), sess.History...)
	cp.Context = make(map[string]any, len(sess.Context))
	for k, v := range sess.Context {
		cp.Context[k] = v
	}
	return &cp, nil
}

func (s *MemoryStore) Put(_ context.Context, sess *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	cp.History = append([]models.Turn(nil), sess.History...)
	cp.Context = make(map[string]any, len(sess.Context))
	for k, v := range sess.Context {
		cp.Context[k] = v
	}
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
