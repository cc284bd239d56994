package users

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/cache"
)

// Ensure implementation satisfies the interface
var _ UserService = (*ServiceUserImpl)(nil)

// UserService defines the account operations exposed by the backend.
type UserService interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

// ServiceUserImpl provides the implementation for UserService.
type ServiceUserImpl struct {
	logger *zap.Logger
	repo   UserRepo
	cache  *cache.QueryCache
}

// NewUserService creates a new user service instance.
func NewUserService(repo UserRepo, queries *cache.QueryCache, logger *zap.Logger) *ServiceUserImpl {
	return &ServiceUserImpl{
		logger: logger,
		repo:   repo,
		cache:  queries,
	}
}

func (s *ServiceUserImpl) List(ctx context.Context) ([]models.User, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyUsers, s.repo.List)
}

func (s *ServiceUserImpl) Get(ctx context.Context, id int64) (*models.User, error) {
	return cache.Fetch(ctx, s.cache, cache.UserKey(id), func(ctx context.Context) (*models.User, error) {
		return s.repo.Get(ctx, id)
	})
}

// Update sends only the fields that are set. Blank values are dropped; a
// request left with nothing to change is rejected.
func (s *ServiceUserImpl) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.Int64("user_id", id))
	l.Debug("Updating user")

	req.Name = trimmed(req.Name)
	req.Email = trimmed(req.Email)
	if req.Name == nil && req.Email == nil {
		return nil, models.NewValidationError("nm_usuario", "Informe um nome ou email")
	}
	if req.Email != nil {
		if _, err := mail.ParseAddress(*req.Email); err != nil {
			return nil, models.NewValidationError("email_usuario", "Email inválido")
		}
	}

	user, err := s.repo.Update(ctx, id, req)
	if err != nil {
		l.Error("Failed to update user", zap.Error(err))
		return nil, err
	}
	// List summaries carry the owner name.
	s.cache.Invalidate(cache.KeyUsers, cache.UserKey(id), cache.KeyLists)
	l.Info("User updated")
	return user, nil
}

func (s *ServiceUserImpl) Delete(ctx context.Context, id int64) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.Int64("user_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		l.Error("Failed to delete user", zap.Error(err))
		return err
	}
	s.cache.Invalidate(cache.KeyUsers, cache.UserKey(id), cache.KeyLists, cache.UserListsKey(id))
	l.Info("User deleted")
	return nil
}

func trimmed(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
