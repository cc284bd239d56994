package users

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
)

const usersPath = "/api/usuarios"

var _ UserRepo = (*HTTPUserRepo)(nil)

// UserRepo is the /api/usuarios resource.
type UserRepo interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type HTTPUserRepo struct {
	logger *zap.Logger
	client *apiclient.Client
}

func NewHTTPUserRepo(client *apiclient.Client, logger *zap.Logger) *HTTPUserRepo {
	return &HTTPUserRepo{logger: logger, client: client}
}

func userPath(id int64) string {
	return fmt.Sprintf("%s/%d", usersPath, id)
}

func (r *HTTPUserRepo) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.client.GetJSON(ctx, usersPath, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (r *HTTPUserRepo) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := r.client.GetJSON(ctx, userPath(id), &user); err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

func (r *HTTPUserRepo) Update(ctx context.Context, id int64, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := r.client.PutJSON(ctx, userPath(id), req, &user); err != nil {
		return nil, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return &user, nil
}

func (r *HTTPUserRepo) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, userPath(id), nil); err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
