package session

import (
	"context"
	"sync"

	"github.com/wishwell/wishwell-go/pkg/models"
)

// Store persists the session snapshot across process restarts. Implementations
// must treat an absent snapshot as (nil, nil), not an error.
type Store interface {
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
	Close() error
}

// MemoryStore keeps the session in process memory only. Used when no durable
// store path is configured, and in tests.
type MemoryStore struct {
	mu      sync.Mutex
	session *models.Session
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(ctx context.Context) (*models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return nil, nil
	}
	copied := *s.session
	return &copied, nil
}

func (s *MemoryStore) Save(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.session = &copied
	return nil
}

func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
