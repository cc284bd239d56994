package home

import (
	"cmp"
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// recentCount is how many catalog entries the home page previews.
const recentCount = 4

// GameCatalog feeds the recent games strip.
type GameCatalog interface {
	List(ctx context.Context) ([]models.Game, error)
}

type HomeHandlers struct {
	*domain.BaseHandler
	games GameCatalog
}

func NewHomeHandlers(base *domain.BaseHandler, games GameCatalog) *HomeHandlers {
	return &HomeHandlers{BaseHandler: base, games: games}
}

func (h *HomeHandlers) ShowHomePage(c *gin.Context) {
	view := pages.HomeView{User: middleware.GetUserFromContext(c)}

	// The home page renders without the strip when the catalog is unreachable.
	games, err := h.games.List(c.Request.Context())
	if err != nil {
		h.Logger.Warn("Failed to load recent games", zap.Error(err))
	} else {
		view.Recent = recent(games, recentCount)
	}

	h.RenderPage(c, "Checkpoint", "Início", pages.Home(view))
}

// recent returns the n games with the highest ids, newest first.
func recent(games []models.Game, n int) []models.Game {
	out := slices.Clone(games)
	slices.SortFunc(out, func(a, b models.Game) int { return cmp.Compare(b.ID, a.ID) })
	if len(out) > n {
		out = out[:n]
	}
	return out
}
