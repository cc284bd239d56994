package lists

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
)

const listsPath = "/api/listas"

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository defines the list and list membership calls of the Checkpoint API
type Repository interface {
	List(ctx context.Context) ([]models.GameList, error)
	Get(ctx context.Context, id int64) (*models.GameList, error)
	ByUser(ctx context.Context, userID int64) ([]models.GameList, error)
	Create(ctx context.Context, req models.CreateListRequest) (*models.GameList, error)
	Update(ctx context.Context, id int64, req models.UpdateListRequest) (*models.GameList, error)
	AddGame(ctx context.Context, listID, gameID int64) error
	RemoveGame(ctx context.Context, listID, gameID int64) error
	Delete(ctx context.Context, id int64) error
}

// RepositoryImpl talks to /api/listas through the shared client
type RepositoryImpl struct {
	logger *zap.Logger
	client *apiclient.Client
}

func NewRepository(client *apiclient.Client, logger *zap.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		client: client,
	}
}

func listPath(id int64) string {
	return fmt.Sprintf("%s/%d", listsPath, id)
}

func (r *RepositoryImpl) List(ctx context.Context) ([]models.GameList, error) {
	var lists []models.GameList
	if err := r.client.GetJSON(ctx, listsPath, &lists); err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	return lists, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int64) (*models.GameList, error) {
	var list models.GameList
	if err := r.client.GetJSON(ctx, listPath(id), &list); err != nil {
		return nil, fmt.Errorf("failed to get list %d: %w", id, err)
	}
	return &list, nil
}

func (r *RepositoryImpl) ByUser(ctx context.Context, userID int64) ([]models.GameList, error) {
	var lists []models.GameList
	if err := r.client.GetJSON(ctx, fmt.Sprintf("%s/usuario/%d", listsPath, userID), &lists); err != nil {
		return nil, fmt.Errorf("failed to list lists of user %d: %w", userID, err)
	}
	return lists, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, req models.CreateListRequest) (*models.GameList, error) {
	if req.GameIDs == nil {
		req.GameIDs = []int64{}
	}
	var list models.GameList
	if err := r.client.PostJSON(ctx, listsPath, req, &list); err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}
	return &list, nil
}

func (r *RepositoryImpl) Update(ctx context.Context, id int64, req models.UpdateListRequest) (*models.GameList, error) {
	var list models.GameList
	if err := r.client.PutJSON(ctx, listPath(id), req, &list); err != nil {
		return nil, fmt.Errorf("failed to update list %d: %w", id, err)
	}
	return &list, nil
}

func (r *RepositoryImpl) AddGame(ctx context.Context, listID, gameID int64) error {
	if err := r.client.PostJSON(ctx, listPath(listID)+"/jogos", models.AddGameRequest{GameID: gameID}, nil); err != nil {
		return fmt.Errorf("failed to add game %d to list %d: %w", gameID, listID, err)
	}
	return nil
}

func (r *RepositoryImpl) RemoveGame(ctx context.Context, listID, gameID int64) error {
	if err := r.client.Delete(ctx, fmt.Sprintf("%s/jogos/%d", listPath(listID), gameID), nil); err != nil {
		return fmt.Errorf("failed to remove game %d from list %d: %w", gameID, listID, err)
	}
	return nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, listPath(id), nil); err != nil {
		return fmt.Errorf("failed to delete list %d: %w", id, err)
	}
	return nil
}
