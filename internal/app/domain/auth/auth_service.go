package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/session"
)

const (
	MinPasswordLength = 6

	FallbackLoginMessage    = "Credenciais inválidas"
	FallbackRegisterMessage = "Erro ao criar conta"
)

// Ensure implementation satisfies the interface
var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService is the session lifecycle of this process: sign-in, sign-out and
// restoring a persisted session at startup.
type AuthService interface {
	Register(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Logout(ctx context.Context)
	InitializeAuth(ctx context.Context)
	HandleUnauthorized(ctx context.Context)
	RefreshUser(ctx context.Context, user models.User) error

	Current(ctx context.Context) (*models.User, bool)
	Token(ctx context.Context) (string, bool)
	IsAuthenticated(ctx context.Context) bool
	IsAdmin(ctx context.Context) bool
}

// Bearer is the default Authorization header of the backend client.
type Bearer interface {
	SetBearer(token string)
	ClearBearer()
}

// QueryFlusher drops every cached backend read. Reads made under one identity
// must not be served to the next.
type QueryFlusher interface {
	Clear()
}

// FlowError is an auth failure with the message meant for the user.
type FlowError struct {
	Kind    error
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *FlowError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

type AuthServiceImpl struct {
	logger   *zap.Logger
	repo     AuthRepo
	sessions *session.Manager
	bearer   Bearer
	queries  QueryFlusher
	now      func() time.Time

	// mu serializes the store+header transitions of login and logout.
	mu sync.Mutex
}

func NewAuthService(repo AuthRepo, sessions *session.Manager, bearer Bearer, queries QueryFlusher, logger *zap.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:   logger,
		repo:     repo,
		sessions: sessions,
		bearer:   bearer,
		queries:  queries,
		now:      time.Now,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) error {
	l := s.logger.With(zap.String("method", "Register"), zap.String("email", email))
	l.Debug("Attempting registration")

	ctx, span := otel.Tracer("checkpoint-web").Start(ctx, "AuthService.Register", trace.WithAttributes(
		attribute.String("email", email),
	))
	defer span.End()

	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	switch {
	case name == "":
		return s.reject(span, "register", models.NewValidationError("name", "Nome é obrigatório"))
	case email == "":
		return s.reject(span, "register", models.NewValidationError("email", "Email é obrigatório"))
	case password == "":
		return s.reject(span, "register", models.NewValidationError("password", "Senha é obrigatória"))
	case len([]rune(password)) < MinPasswordLength:
		return s.reject(span, "register", models.NewValidationError("password",
			fmt.Sprintf("A senha deve ter pelo menos %d caracteres", MinPasswordLength)))
	}

	_, err := s.repo.Register(ctx, models.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		l.Warn("Registration rejected", zap.Error(err))
		return s.reject(span, "register", &FlowError{
			Kind:    models.ErrRegistration,
			Message: models.MessageOf(err, FallbackRegisterMessage),
			Err:     err,
		})
	}

	s.count(ctx, "register", "success")
	span.SetStatus(codes.Ok, "User registered")
	l.Info("Registration successful")
	return nil
}

// Login authenticates against the backend, persists the session and installs
// the bearer header. If the session cannot be stored the header is left
// untouched.
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	l := s.logger.With(zap.String("method", "Login"), zap.String("email", email))
	l.Debug("Attempting login")

	ctx, span := otel.Tracer("checkpoint-web").Start(ctx, "AuthService.Login")
	defer span.End()

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, s.reject(span, "login", models.NewValidationError("email", "Email e senha são obrigatórios"))
	}

	resp, err := s.repo.Login(ctx, models.LoginRequest{Email: email, Password: password})
	if err != nil {
		l.Warn("Login rejected", zap.Error(err))
		return nil, s.reject(span, "login", &FlowError{
			Kind:    models.ErrAuthentication,
			Message: models.MessageOf(err, FallbackLoginMessage),
			Err:     err,
		})
	}
	if resp.Token == "" {
		l.Error("Backend accepted login without a token")
		return nil, s.reject(span, "login", &FlowError{Kind: models.ErrAuthentication, Message: FallbackLoginMessage})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessions.Save(ctx, resp.User, resp.Token); err != nil {
		l.Error("Failed to persist session", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "session not persisted")
		s.count(ctx, "login", "error")
		return nil, fmt.Errorf("persist session: %w", err)
	}
	s.bearer.SetBearer(resp.Token)
	s.queries.Clear()

	s.count(ctx, "login", "success")
	span.SetStatus(codes.Ok, "Logged in")
	l.Info("Login successful", zap.Int64("userID", resp.User.ID))
	return resp, nil
}

// Logout clears the session and the bearer header. It cannot fail from the
// caller's point of view; storage errors are logged.
func (s *AuthServiceImpl) Logout(ctx context.Context) {
	l := s.logger.With(zap.String("method", "Logout"))
	ctx = context.WithoutCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.sessions.Clear(ctx); err != nil {
		l.Error("Failed to clear persisted session", zap.Error(err))
	}
	s.bearer.ClearBearer()
	s.queries.Clear()
	s.count(ctx, "logout", "success")
	l.Info("Logged out")
}

// InitializeAuth re-attaches a persisted session's bearer. A JWT whose exp has
// passed is discarded instead.
func (s *AuthServiceImpl) InitializeAuth(ctx context.Context) {
	l := s.logger.With(zap.String("method", "InitializeAuth"))

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Session(ctx)
	if !ok {
		s.bearer.ClearBearer()
		l.Debug("No persisted session")
		return
	}
	if exp, ok := tokenExpiry(sess.Token); ok && !exp.After(s.now()) {
		l.Info("Persisted token expired, discarding session", zap.Time("exp", exp))
		if err := s.sessions.Clear(ctx); err != nil {
			l.Error("Failed to clear expired session", zap.Error(err))
		}
		s.bearer.ClearBearer()
		return
	}

	s.bearer.SetBearer(sess.Token)
	l.Info("Restored session", zap.Int64("userID", sess.User.ID))
}

// HandleUnauthorized is the client's 401 hook: the token is no longer
// accepted, so the session ends.
func (s *AuthServiceImpl) HandleUnauthorized(ctx context.Context) {
	s.logger.Warn("Backend rejected the session token, signing out")
	s.Logout(ctx)
}

// RefreshUser re-saves the session with an updated record of the signed-in
// user. Records of other users are ignored.
func (s *AuthServiceImpl) RefreshUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions.Session(ctx)
	if !ok {
		return models.ErrUnauthenticated
	}
	if sess.User.ID != user.ID {
		return nil
	}
	if user.Role == "" {
		user.Role = sess.User.Role
	}
	return s.sessions.Save(ctx, user, sess.Token)
}

func (s *AuthServiceImpl) Current(ctx context.Context) (*models.User, bool) {
	return s.sessions.Current(ctx)
}

func (s *AuthServiceImpl) Token(ctx context.Context) (string, bool) {
	return s.sessions.Token(ctx)
}

func (s *AuthServiceImpl) IsAuthenticated(ctx context.Context) bool {
	_, ok := s.sessions.Token(ctx)
	return ok
}

func (s *AuthServiceImpl) IsAdmin(ctx context.Context) bool {
	u, ok := s.sessions.Current(ctx)
	return ok && u.IsAdmin()
}

func (s *AuthServiceImpl) reject(span trace.Span, action string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, action+" failed")
	outcome := "rejected"
	if errors.Is(err, models.ErrValidation) {
		outcome = "invalid"
	} else if errors.Is(err, models.ErrNetwork) {
		outcome = "error"
	}
	s.count(context.Background(), action, outcome)
	return err
}

func (s *AuthServiceImpl) count(ctx context.Context, action, outcome string) {
	metrics.Get().AuthRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}
