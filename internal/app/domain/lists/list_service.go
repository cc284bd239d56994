package lists

import (
	"context"
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
	List(ctx context.Context) ([]models.GameList, error)
	Get(ctx context.Context, id int64) (*models.GameList, error)
	ByUser(ctx context.Context, userID int64) ([]models.GameList, error)
	Create(ctx context.Context, name string, gameIDs []int64) (*models.GameList, error)
	Update(ctx context.Context, id int64, req models.UpdateListRequest) (*models.GameList, error)
	AddGame(ctx context.Context, listID, gameID int64) error
	RemoveGame(ctx context.Context, listID, gameID int64) error
	Delete(ctx context.Context, id int64) error
}

type ServiceImpl struct {
	logger         *zap.Logger
	listRepository Repository
	cache          *cache.QueryCache
}

// NewService creates a new instance of ServiceImpl
func NewService(repo Repository, queries *cache.QueryCache, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:         logger,
		listRepository: repo,
		cache:          queries,
	}
}

func (s *ServiceImpl) List(ctx context.Context) ([]models.GameList, error) {
	return cache.Fetch(ctx, s.cache, cache.KeyLists, s.listRepository.List)
}

func (s *ServiceImpl) Get(ctx context.Context, id int64) (*models.GameList, error) {
	return cache.Fetch(ctx, s.cache, cache.ListKey(id), func(ctx context.Context) (*models.GameList, error) {
		return s.listRepository.Get(ctx, id)
	})
}

func (s *ServiceImpl) ByUser(ctx context.Context, userID int64) ([]models.GameList, error) {
	return cache.Fetch(ctx, s.cache, cache.UserListsKey(userID), func(ctx context.Context) ([]models.GameList, error) {
		return s.listRepository.ByUser(ctx, userID)
	})
}

// Create makes a new list owned by the signed-in user, as identified by the backend from the bearer.
func (s *ServiceImpl) Create(ctx context.Context, name string, gameIDs []int64) (*models.GameList, error) {
	ctx, span := otel.Tracer("ListService").Start(ctx, "Create", trace.WithAttributes(
		attribute.String("list.name", name),
		attribute.Int("list.games", len(gameIDs)),
	))
	defer span.End()

	l := s.logger.With(zap.String("method", "Create"))

	name = strings.TrimSpace(name)
	if name == "" {
		span.SetStatus(codes.Error, "missing name")
		return nil, models.NewValidationError("nm_lista", "O nome da lista é obrigatório")
	}

	list, err := s.listRepository.Create(ctx, models.CreateListRequest{Name: name, GameIDs: gameIDs})
	if err != nil {
		l.Error("Failed to create list", zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "create failed")
		return nil, err
	}

	s.invalidate(list.ID)
	l.Info("List created", zap.Int64("list_id", list.ID))
	span.SetStatus(codes.Ok, "List created")
	return list, nil
}

func (s *ServiceImpl) Update(ctx context.Context, id int64, req models.UpdateListRequest) (*models.GameList, error) {
	l := s.logger.With(zap.String("method", "Update"), zap.Int64("list_id", id))

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, models.NewValidationError("nm_lista", "O nome da lista é obrigatório")
		}
		req.Name = &name
	}

	list, err := s.listRepository.Update(ctx, id, req)
	if err != nil {
		l.Error("Failed to update list", zap.Error(err))
		return nil, err
	}
	s.invalidate(id)
	return list, nil
}

func (s *ServiceImpl) AddGame(ctx context.Context, listID, gameID int64) error {
	ctx, span := otel.Tracer("ListService").Start(ctx, "AddGame", trace.WithAttributes(
		attribute.Int64("list.id", listID),
		attribute.Int64("game.id", gameID),
	))
	defer span.End()

	if err := s.listRepository.AddGame(ctx, listID, gameID); err != nil {
		s.logger.Error("Failed to add game to list", zap.Int64("list_id", listID), zap.Int64("game_id", gameID), zap.Error(err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "add failed")
		return err
	}
	s.invalidate(listID)
	return nil
}

func (s *ServiceImpl) RemoveGame(ctx context.Context, listID, gameID int64) error {
	if err := s.listRepository.RemoveGame(ctx, listID, gameID); err != nil {
		s.logger.Error("Failed to remove game from list", zap.Int64("list_id", listID), zap.Int64("game_id", gameID), zap.Error(err))
		return err
	}
	s.invalidate(listID)
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.listRepository.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete list", zap.Int64("list_id", id), zap.Error(err))
		return err
	}
	s.invalidate(id)
	s.logger.Info("List deleted", zap.Int64("list_id", id))
	return nil
}

// invalidate drops the list, the community listing and every per-user listing,
// since the owner is not known from the id alone.
func (s *ServiceImpl) invalidate(id int64) {
	s.cache.Invalidate(cache.KeyLists, cache.ListKey(id))
	s.cache.InvalidatePrefix(cache.PrefixUserLists)
}
