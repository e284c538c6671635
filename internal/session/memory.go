package session

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type memoryEntry struct {
	data      Data
	expiresAt time.Time
}

// Memory keeps sessions in a process-local map. Expired entries are
// dropped on lookup and swept whenever a new session is created.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

// NewMemory creates an empty in-memory session store.
func NewMemory() *Memory {
	return &Memory{
		sessions: make(map[string]memoryEntry),
		ttl:      DefaultTTL,
		now:      time.Now,
	}
}

func (s *Memory) TTL() time.Duration { return s.ttl }

func (s *Memory) Create(ctx context.Context, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	now := s.now()
	data.CreatedAt = now.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for token, e := range s.sessions {
		if !now.Before(e.expiresAt) {
			delete(s.sessions, token)
		}
	}
	s.sessions[id] = memoryEntry{data: *data, expiresAt: now.Add(s.ttl)}
	return id, nil
}

func (s *Memory) Get(ctx context.Context, token string) (*Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[token]
	if !ok {
		return nil, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.sessions, token)
		return nil, nil
	}
	data := e.data
	return &data, nil
}

func (s *Memory) Destroy(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
