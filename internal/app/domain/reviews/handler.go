package reviews

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// GameReader loads the game a review section belongs to.
type GameReader interface {
	Get(ctx context.Context, id int64) (*models.Game, error)
}

type Handler struct {
	*domain.BaseHandler
	service Service
	games   GameReader
	log     *zap.Logger
}

func NewHandler(base *domain.BaseHandler, service Service, games GameReader, log *zap.Logger) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
		games:       games,
		log:         log,
	}
}

func (h *Handler) CreateReview(c *gin.Context) {
	gameID, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Avaliação", "Jogos", "/games", err)
		return
	}

	score, err := strconv.ParseFloat(strings.TrimSpace(c.PostForm("nota")), 64)
	if err != nil {
		h.respond(c, gameID, models.NewValidationError("nota", "A nota deve estar entre 0 e 5"))
		return
	}
	_, err = h.service.Create(c.Request.Context(), models.CreateReviewRequest{
		GameID:  gameID,
		Score:   score,
		Comment: c.PostForm("comentario"),
	})
	h.respond(c, gameID, err)
}

func (h *Handler) DeleteReview(c *gin.Context) {
	gameID, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Avaliação", "Jogos", "/games", err)
		return
	}
	reviewID, err := domain.ParamID(c, "rid")
	if err != nil {
		h.RenderError(c, "Avaliação", "Jogos", fmt.Sprintf("/games/%d", gameID), err)
		return
	}
	h.respond(c, gameID, h.service.Delete(c.Request.Context(), reviewID))
}

// respond re-renders the reviews section for htmx and redirects back to the
// game otherwise. A failed mutation keeps the section and shows the error.
func (h *Handler) respond(c *gin.Context, gameID int64, mutationErr error) {
	back := fmt.Sprintf("/games/%d", gameID)
	if !middleware.IsHTMX(c) {
		if mutationErr != nil {
			h.RenderError(c, "Avaliação", "Jogos", back, mutationErr)
			return
		}
		h.Redirect(c, back)
		return
	}

	ctx := c.Request.Context()
	game, err := h.games.Get(ctx, gameID)
	if err != nil {
		h.RenderError(c, "Avaliação", "Jogos", "/games", err)
		return
	}
	view := pages.GameDetailView{User: middleware.GetUserFromContext(c), Game: *game}
	status := http.StatusOK
	if mutationErr != nil {
		h.log.Warn("Review mutation failed", zap.Int64("game_id", gameID), zap.Error(mutationErr))
		status = domain.StatusOf(mutationErr)
		view.Error = models.MessageOf(mutationErr, domain.MessageFor(mutationErr))
	}
	if view.Reviews, err = h.service.ByGame(ctx, gameID); err != nil {
		h.RenderError(c, "Avaliação", "Jogos", back, err)
		return
	}
	view.Average, view.HasAverage = h.service.Average(view.Reviews)
	h.RenderFragment(c, status, pages.ReviewsSection(view))
}
