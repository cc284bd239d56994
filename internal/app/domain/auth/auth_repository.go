package auth

import (
	"context"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
)

const (
	registerPath = "/api/auth/registrar"
	loginPath    = "/api/auth/login"
)

var _ AuthRepo = (*HTTPAuthRepo)(nil)

// AuthRepo is the backend side of authentication.
type AuthRepo interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

type HTTPAuthRepo struct {
	client *apiclient.Client
	logger *zap.Logger
}

func NewHTTPAuthRepo(client *apiclient.Client, logger *zap.Logger) *HTTPAuthRepo {
	return &HTTPAuthRepo{client: client, logger: logger}
}

func (r *HTTPAuthRepo) Register(ctx context.Context, req models.RegisterRequest) (*models.RegisterResponse, error) {
	var resp models.RegisterResponse
	if err := r.client.PostJSON(ctx, registerPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (r *HTTPAuthRepo) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := r.client.PostJSON(ctx, loginPath, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
