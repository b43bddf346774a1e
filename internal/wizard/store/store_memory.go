package store

import (
	"context"
	"fmt"
	"sync"

	"leadgate/internal/wizard/models"
)

// Memory keeps sessions in a mutex-guarded map. Sessions are cloned on the
// way in and out so callers can never mutate stored state directly.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*models.Session)}
}

func (s *Memory) Save(_ context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session.Clone()
	return nil
}

func (s *Memory) FindByID(_ context.Context, id string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %q: %w", id, ErrNotFound)
	}
	return session.Clone(), nil
}

func (s *Memory) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
