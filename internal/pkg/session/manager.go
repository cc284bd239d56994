package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// Manager is the session object owned by the application root. It reads
// through to the Store on every call and never touches the network.
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	mu     sync.Mutex
}

func NewManager(store Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{store: store, logger: logger, now: time.Now}
}

// Save persists user and token together.
func (m *Manager) Save(ctx context.Context, user models.User, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Save(ctx, models.Session{User: &user, Token: token, SavedAt: m.now()})
}

// Clear removes the persisted session.
func (m *Manager) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Clear(ctx)
}

// Session returns the persisted session. Corrupt data is logged, cleared and
// reported as no session.
func (m *Manager) Session(ctx context.Context) (models.Session, bool) {
	s, err := m.store.Load(ctx)
	switch {
	case err == nil:
		return s, true
	case errors.Is(err, ErrNoSession):
		return models.Session{}, false
	case errors.Is(err, models.ErrSessionCorrupt):
		m.logger.Warn("Discarding corrupt session", zap.Error(err))
		if clearErr := m.Clear(ctx); clearErr != nil {
			m.logger.Error("Failed to clear corrupt session", zap.Error(clearErr))
		}
		return models.Session{}, false
	default:
		m.logger.Error("Failed to load session", zap.Error(err))
		return models.Session{}, false
	}
}

// Current returns the persisted user, if any.
func (m *Manager) Current(ctx context.Context) (*models.User, bool) {
	s, ok := m.Session(ctx)
	if !ok {
		return nil, false
	}
	return s.User, true
}

// Token returns the persisted bearer token, if any.
func (m *Manager) Token(ctx context.Context) (string, bool) {
	s, ok := m.Session(ctx)
	if !ok {
		return "", false
	}
	return s.Token, true
}
