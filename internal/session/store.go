package session

import (
	"context"
	"sync"

	"github.com/bashkirian/cutline-analytics/pkg/models"
)

// Store persists the latest session so a restart does not force an immediate
// re-acquisition. A miss is (nil, nil), not an error.
type Store interface {
	Save(ctx context.Context, s models.Session) error
	Latest(ctx context.Context) (*models.Session, error)
}

// MemoryStore is the default in-process store.
type MemoryStore struct {
	mu      sync.RWMutex
	current *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(ctx context.Context, sess models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
	return nil
}

func (s *MemoryStore) Latest(ctx context.Context) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, nil
	}
	sess := *s.current
	return &sess, nil
}
