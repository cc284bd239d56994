package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	database "github.com/FACorreiaa/go-checkpoint/internal/db"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/config"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/session"
)

// Server holds the dependencies for the HTTP server
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	store  session.Store
	db     *sql.DB
	router http.Handler
}

// New creates a new Server instance with all dependencies
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: logger,
	}

	store, err := s.setupSessionStore(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to setup session store: %w", err)
	}
	s.store = store

	return s, nil
}

// setupSessionStore opens the configured session backend, migrating it when it is SQLite
func (s *Server) setupSessionStore(ctx context.Context) (session.Store, error) {
	l := s.logger.With(zap.String("store", string(s.cfg.Session.Store)))

	switch s.cfg.Session.Store {
	case config.SessionStoreMemory:
		l.Warn("Session kept in memory; it will not survive a restart")
		return session.NewMemoryStore(), nil

	case config.SessionStoreSQLite:
		db, err := database.OpenAndMigrate(ctx, s.cfg.Session.Path, s.logger)
		if err != nil {
			return nil, err
		}
		s.db = db
		l.Info("Session store ready", zap.String("path", s.cfg.Session.Path))
		return session.NewSQLiteStore(db), nil

	default:
		store, err := session.NewFileStore(s.cfg.Session.Path, s.cfg.Session.Key)
		if err != nil {
			return nil, err
		}
		l.Info("Session store ready",
			zap.String("path", store.Path()),
			zap.Bool("sealed", len(s.cfg.Session.Key) > 0))
		return store, nil
	}
}

// HTTPServer creates and configures the HTTP server
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.router,
		IdleTimeout:       time.Minute,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Covers the slowest backend call plus rendering.
		WriteTimeout: s.cfg.Backend.Timeout + 20*time.Second,
	}
}

// SetRouter sets the HTTP router/handler
func (s *Server) SetRouter(router http.Handler) {
	s.router = router
}

// SessionStore returns the persisted session backend
func (s *Server) SessionStore() session.Store {
	return s.store
}

// Close closes all server resources
func (s *Server) Close() {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Warn("Failed to close session database", zap.Error(err))
		}
	}
}
