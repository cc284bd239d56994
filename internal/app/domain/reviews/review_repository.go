package reviews

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
)

const reviewsPath = "/api/avaliacoes"

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	List(ctx context.Context) ([]models.Review, error)
	ByGame(ctx context.Context, gameID int64) ([]models.Review, error)
	Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, id int64, req models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type RepositoryImpl struct {
	logger *zap.Logger
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{logger: logger, client: client}
}

func (r *RepositoryImpl) List(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.client.GetJSON(ctx, reviewsPath, &reviews); err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

func (r *RepositoryImpl) ByGame(ctx context.Context, gameID int64) ([]models.Review, error) {
	var reviews []models.Review
	if err := r.client.GetJSON(ctx, fmt.Sprintf("%s/jogo/%d", reviewsPath, gameID), &reviews); err != nil {
		return nil, fmt.Errorf("failed to list reviews of game %d: %w", gameID, err)
	}
	return reviews, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := r.client.PostJSON(ctx, reviewsPath, req, &review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return &review, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id int64, req models.UpdateReviewRequest) (*models.Review, error) {
	var review models.Review
	if err := r.client.PutJSON(ctx, fmt.Sprintf("%s/%d", reviewsPath, id), req, &review); err != nil {
		return nil, fmt.Errorf("failed to update review %d: %w", id, err)
	}
	return &review, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, fmt.Sprintf("%s/%d", reviewsPath, id), nil); err != nil {
		return fmt.Errorf("failed to delete review %d: %w", id, err)
	}
	return nil
}
