package leads

import (
	"context"
	"fmt"
	"sync"

	"leadgate/pkg/sentinel"
)

// MemoryArchive keeps leads in memory, keyed by session ID.
type MemoryArchive struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{leads: make(map[string]*Lead)}
}

func (a *MemoryArchive) Record(_ context.Context, lead *Lead) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.leads[lead.SessionID]; exists {
		return nil
	}
	cp := *lead
	a.leads[lead.SessionID] = &cp
	return nil
}

func (a *MemoryArchive) FindBySessionID(_ context.Context, sessionID string) (*Lead, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	lead, ok := a.leads[sessionID]
	if !ok {
		return nil, fmt.Errorf("lead for session %q: %w", sessionID, sentinel.ErrNotFound)
	}
	cp := *lead
	return &cp, nil
}
