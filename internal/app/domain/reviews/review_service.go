package reviews

import (
	"context"
	"math"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/cache"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	List(ctx context.Context) ([]models.Review, error)
	ByGame(ctx context.Context, gameID int64) ([]models.Review, error)
	Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error)
	Update(ctx context.Context, id int64, req models.UpdateReviewRequest) (*models.Review, error)
	Delete(ctx context.Context, id int64) error
	Average(reviews []models.Review) (float64, bool)
}

// SessionReader yields the author of new reviews.
type SessionReader interface {
	Current(ctx context.Context) (*models.User, bool)
}

type ServiceImpl struct {
	logger   *zap.Logger
	repo     Repository
	cache    *cache.QueryCache
	sessions SessionReader
}

func NewService(repo Repository, queries *cache.QueryCache, sessions SessionReader, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		repo:     repo,
		cache:    queries,
		sessions: sessions,
	}
}

func (s *ServiceImpl) List(ctx context.Context) ([]models.Review, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyReviews, s.repo.List)
}

func (s *ServiceImpl) ByGame(ctx context.Context, gameID int64) ([]models.Review, error) {
	return cache.Fetch(ctx, s.cache, cache.GameReviewsKey(gameID), func(ctx context.Context) ([]models.Review, error) {
		return s.repo.ByGame(ctx, gameID)
	})
}

// Create posts a review authored by the signed-in user; req.UserID is ignored.
func (s *ServiceImpl) Create(ctx context.Context, req models.CreateReviewRequest) (*models.Review, error) {
	ctx, span := otel.Tracer("ReviewsService").Start(ctx, "Create", trace.WithAttributes(
		attribute.Int64("game.id", req.GameID),
		attribute.Float64("review.score", req.Score),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Create"), zap.Int64("game_id", req.GameID))

	user, ok := s.sessions.Current(ctx)
	if !ok {
		span.SetStatus(codes.Error, "no session")
		return nil, models.ErrUnauthenticated
	}
	if err := validateScore(req.Score); err != nil {
		span.SetStatus(codes.Error, "invalid score")
		return nil, err
	}
	req.UserID = user.ID
	req.Comment = strings.TrimSpace(req.Comment)

	review, err := s.repo.Create(ctx, req)
	if err != nil {
		l.Error("Failed to create review", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}

	s.cache.Invalidate(cache.KeyReviews, cache.GameReviewsKey(req.GameID))
	l.Info("Review created", zap.Int64("review_id", review.ID), zap.Int64("user_id", user.ID))
	span.SetStatus(codes.Ok, "Review created")
	return review, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int64, req models.UpdateReviewRequest) (*models.Review, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.Int64("review_id", id))

	if req.Score != nil {
		if err := validateScore(*req.Score); err != nil {
			return nil, err
		}
	}
	review, err := s.repo.Update(ctx, id, req)
	if err != nil {
		l.Error("Failed to update review", zap.Error(err))
		return nil, err
	}
	s.invalidateAll()
	return review, nil
}

// Delete removes review id. The owning game is unknown here, so every
// per-game read is dropped.
func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	l := s.logger.With(zap.String("method", "Delete"), zap.Int64("review_id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		l.Error("Failed to delete review", zap.Error(err))
		return err
	}
	s.invalidateAll()
	l.Info("Review deleted")
	return nil
}

func (s *ServiceImpl) invalidateAll() {
	s.cache.Invalidate(cache.KeyReviews)
	s.cache.InvalidatePrefix(cache.PrefixGameReviews)
}

// Average is the mean score, reported only when there is at least one review.
func (s *ServiceImpl) Average(reviews []models.Review) (float64, bool) {
	return Average(reviews)
}

func Average(reviews []models.Review) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Score
	}
	return sum / float64(len(reviews)), true
}

func validateScore(score float64) error {
	if math.IsNaN(score) || score < models.MinScore || score > models.MaxScore {
		return models.NewValidationError("nota", "A nota deve estar entre 0 e 5")
	}
	return nil
}
