package session

import (
	"context"
	"sync"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps the session for the lifetime of the process only.
type MemoryStore struct {
	mu      sync.RWMutex
	session *models.Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Save(_ context.Context, s models.Session) error {
	if err := validate(s); err != nil {
		return err
	}
	u := *s.User
	s.User = &u
	m.mu.Lock()
	m.session = &s
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Load(_ context.Context) (models.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return models.Session{}, ErrNoSession
	}
	s := *m.session
	u := *s.User
	s.User = &u
	return s, nil
}

func (m *MemoryStore) Clear(_ context.Context) error {
	m.mu.Lock()
	m.session = nil
	m.mu.Unlock()
	return nil
}
