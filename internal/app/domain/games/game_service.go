package games

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/cache"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/search"
)

var _ Service = (*ServiceImpl)(nil)

// Filter narrows the catalog. Empty fields match everything.
type Filter struct {
	Query string
	Genre string
}

type Service interface {
	List(ctx context.Context) ([]models.Game, error)
	Get(ctx context.Context, id int64) (*models.Game, error)
	Create(ctx context.Context, in models.GameInput) (*models.Game, error)
	Update(ctx context.Context, id int64, in models.GameInput) (*models.Game, error)
	Delete(ctx context.Context, id int64) error
	Search(ctx context.Context, f Filter) ([]models.Game, error)
	Image(ctx context.Context, id int64) (*apiclient.StreamResponse, error)
	ImageURL(id int64) string
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
	cache  *cache.QueryCache
}

func NewService(repo Repository, queries *cache.QueryCache, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  queries,
	}
}

func (s *ServiceImpl) List(ctx context.Context) ([]models.Game, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyGames, s.repo.List)
}

func (s *ServiceImpl) Get(ctx context.Context, id int64) (*models.Game, error) {
	return cache.Fetch(ctx, s.cache, cache.GameKey(id), func(ctx context.Context) (*models.Game, error) {
		return s.repo.Get(ctx, id)
	})
}

func (s *ServiceImpl) Create(ctx context.Context, in models.GameInput) (*models.Game, error) {
	ctx, span := otel.Tracer("GamesService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("game.name", in.Name),
		attribute.Bool("game.with_image", in.Image != nil),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Create"))

	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		span.SetStatus(codes.Error, "missing name")
		return nil, models.NewValidationError("nm_jogo", "O nome do jogo é obrigatório")
	}

	game, err := s.repo.Create(ctx, in)
	if err != nil {
		l.Error("Failed to create game", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}

	s.cache.Invalidate(cache.KeyGames, cache.GameKey(game.ID))
	l.Info("Game created", zap.Int64("game_id", game.ID))
	span.SetStatus(codes.Ok, "Game created")
	return game, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int64, in models.GameInput) (*models.Game, error) {
	ctx, span := otel.Tracer("GamesService").Start(ctx, "Update", trace.WithAttributes(
		attribute.Int64("game.id", id),
		attribute.Bool("game.with_image", in.Image != nil),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Update"), zap.Int64("game_id", id))

	game, err := s.repo.Update(ctx, id, in)
	if err != nil {
		l.Error("Failed to update game", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "update failed")
		return nil, err
	}

	s.cache.Invalidate(cache.KeyGames, cache.GameKey(id), cache.KeyLists)
	s.cache.InvalidatePrefix(cache.PrefixList)
	s.cache.InvalidatePrefix(cache.PrefixUserLists)
	l.Info("Game updated")
	span.SetStatus(codes.Ok, "Game updated")
	return game, nil
}

// Delete removes the game and every cached read that may embed it.
func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	ctx, span := otel.Tracer("GamesService").Start(ctx, "Delete", trace.WithAttributes(
		attribute.Int64("game.id", id),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Delete"), zap.Int64("game_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		l.Error("Failed to delete game", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}

	s.cache.Invalidate(cache.KeyGames, cache.GameKey(id), cache.KeyLists, cache.GameReviewsKey(id), cache.KeyReviews)
	s.cache.InvalidatePrefix(cache.PrefixList)
	s.cache.InvalidatePrefix(cache.PrefixUserLists)
	l.Info("Game deleted")
	span.SetStatus(codes.Ok, "Game deleted")
	return nil
}

// Search filters the full catalog in memory: the name must contain every
// term of the query and the genre must contain f.Genre, ignoring case and accents.
func (s *ServiceImpl) Search(ctx context.Context, f Filter) ([]models.Game, error) {
	all, err := s.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	metrics.Get().SearchRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("has_query", strings.TrimSpace(f.Query) != ""),
		attribute.Bool("has_genre", strings.TrimSpace(f.Genre) != ""),
	))

	matcher := search.NewMatcher(f.Query)
	out := make([]models.Game, 0, len(all))
	for _, g := range all {
		if !matcher.Match(g.Name) || !search.Contains(g.Genre, f.Genre) {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

func (s *ServiceImpl) Image(ctx context.Context, id int64) (*apiclient.StreamResponse, error) {
	return s.repo.Image(ctx, id)
}

func (s *ServiceImpl) ImageURL(id int64) string {
	return s.repo.ImageURL(id)
}
