package games

import (
	"context"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
)

const gamesPath = "/api/jogos"

// Ensure RepositoryImpl implements the Repository interface
var _ Repository = (*RepositoryImpl)(nil)

// Repository is the games resource of the Checkpoint API.
type Repository interface {
	List(ctx context.Context) ([]models.Game, error)
	Get(ctx context.Context, id int64) (*models.Game, error)
	Create(ctx context.Context, in models.GameInput) (*models.Game, error)
	Update(ctx context.Context, id int64, in models.GameInput) (*models.Game, error)
	Delete(ctx context.Context, id int64) error
	Image(ctx context.Context, id int64) (*apiclient.StreamResponse, error)
	ImageURL(id int64) string
}

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

func gamePath(id int64) string {
	return fmt.Sprintf("%s/%d", gamesPath, id)
}

func imagePath(id int64) string {
	return gamePath(id) + "/imagem"
}

func (r *RepositoryImpl) List(ctx context.Context) ([]models.Game, error) {
	var games []models.Game
	if err := r.client.GetJSON(ctx, gamesPath, &games); err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id int64) (*models.Game, error) {
	var game models.Game
	if err := r.client.GetJSON(ctx, gamePath(id), &game); err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}
	return &game, nil
}

// Create always sends the name, genre and rating; the release date and the
// image only when present.
func (r *RepositoryImpl) Create(ctx context.Context, in models.GameInput) (*models.Game, error) {
	form := apiclient.NewMultipart().
		Field("nm_jogo", in.Name).
		Field("genero", in.Genre).
		Field("classificacao", in.Rating).
		FieldIfSet("dt_jogo", in.ReleaseDate)
	attachImage(form, in.Image)

	var game models.Game
	if err := r.client.SendMultipart(ctx, http.MethodPost, gamesPath, form, &game); err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}
	r.logger.Debug("Game created", zap.Int64("game_id", game.ID), zap.Bool("with_image", form.Has("img_jogo")))
	return &game, nil
}

// Update sends only the fields that were filled in. Without a new image the
// img_jogo part is left out entirely so the stored cover is kept.
func (r *RepositoryImpl) Update(ctx context.Context, id int64, in models.GameInput) (*models.Game, error) {
	form := apiclient.NewMultipart().
		FieldIfSet("nm_jogo", in.Name).
		FieldIfSet("genero", in.Genre).
		FieldIfSet("classificacao", in.Rating).
		FieldIfSet("dt_jogo", in.ReleaseDate)
	attachImage(form, in.Image)

	var game models.Game
	if err := r.client.SendMultipart(ctx, http.MethodPut, gamePath(id), form, &game); err != nil {
		return nil, fmt.Errorf("failed to update game %d: %w", id, err)
	}
	return &game, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id int64) error {
	if err := r.client.Delete(ctx, gamePath(id), nil); err != nil {
		return fmt.Errorf("failed to delete game %d: %w", id, err)
	}
	return nil
}

// Image streams the stored cover. The caller closes the body.
func (r *RepositoryImpl) Image(ctx context.Context, id int64) (*apiclient.StreamResponse, error) {
	resp, err := r.client.Stream(ctx, imagePath(id))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cover of game %d: %w", id, err)
	}
	return resp, nil
}

func (r *RepositoryImpl) ImageURL(id int64) string {
	return r.client.URL(imagePath(id))
}

func attachImage(form *apiclient.Multipart, img *models.ImageUpload) {
	if img == nil || img.Data == nil {
		return
	}
	form.File("img_jogo", img.Filename, img.ContentType, img.Data)
}
