package games

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/banner"
	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// ReviewReader is what the detail page needs from the reviews service.
type ReviewReader interface {
	ByGame(ctx context.Context, gameID int64) ([]models.Review, error)
	Average(reviews []models.Review) (float64, bool)
}

// ListReader loads the signed-in user's lists for the add-to-list form.
type ListReader interface {
	ByUser(ctx context.Context, userID int64) ([]models.GameList, error)
}

type Handler struct {
	*domain.BaseHandler
	service Service
	reviews ReviewReader
	lists   ListReader
	log     *zap.Logger
}

func NewHandler(base *domain.BaseHandler, service Service, reviews ReviewReader, lists ListReader, log *zap.Logger) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
		reviews:     reviews,
		lists:       lists,
		log:         log,
	}
}

// ShowGamesPage renders the catalog. Search requests aimed at the grid get the grid alone.
func (h *Handler) ShowGamesPage(c *gin.Context) {
	filter := Filter{Query: strings.TrimSpace(c.Query("q")), Genre: strings.TrimSpace(c.Query("genre"))}

	games, err := h.service.Search(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("Failed to search games", zap.Error(err))
		h.RenderError(c, "Jogos", "Jogos", "/", err)
		return
	}

	view := pages.GamesView{
		User:    middleware.GetUserFromContext(c),
		Games:   games,
		Query:   filter.Query,
		Genre:   filter.Genre,
		Genres:  pages.Genres,
		Ratings: pages.Ratings,
		Total:   len(games),
	}
	if c.GetHeader("HX-Target") == "game-grid" {
		h.RenderFragment(c, http.StatusOK, pages.GameGrid(view))
		return
	}
	h.RenderPage(c, "Jogos", "Jogos", pages.Games(view))
}

func (h *Handler) ShowNewGameForm(c *gin.Context) {
	h.RenderPage(c, "Adicionar Jogo", "Jogos", pages.GameForm(pages.GameFormView{
		Genres:  pages.Genres,
		Ratings: pages.Ratings,
	}))
}

func (h *Handler) ShowEditGameForm(c *gin.Context) {
	game, ok := h.loadGame(c)
	if !ok {
		return
	}
	if !middleware.GetUserFromContext(c).CanEdit(game.OwnerID) {
		h.RenderError(c, "Editar Jogo", "Jogos", "/games", models.ErrForbidden)
		return
	}
	h.RenderPage(c, "Editar Jogo", "Jogos", pages.GameForm(pages.GameFormView{
		Game:    game,
		Genres:  pages.Genres,
		Ratings: pages.Ratings,
	}))
}

// ShowGameDetail loads the game, its reviews and the viewer's lists concurrently.
func (h *Handler) ShowGameDetail(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Jogo", "Jogos", "/games", err)
		return
	}
	user := middleware.GetUserFromContext(c)
	l := h.log.With(zap.String("method", "ShowGameDetail"), zap.Int64("game_id", id))

	var (
		game       *models.Game
		reviews    []models.Review
		reviewsErr error
		myLists    []models.GameList
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		game, err = h.service.Get(ctx, id)
		return err
	})
	g.Go(func() error {
		reviews, reviewsErr = h.reviews.ByGame(ctx, id)
		return nil
	})
	if user != nil {
		g.Go(func() error {
			var err error
			if myLists, err = h.lists.ByUser(ctx, user.ID); err != nil {
				l.Warn("Failed to load user lists", zap.Error(err))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.Warn("Failed to load game", zap.Error(err))
		h.RenderError(c, "Jogo", "Jogos", "/games", err)
		return
	}

	view := pages.GameDetailView{User: user, Game: *game, MyLists: myLists}
	if reviewsErr != nil {
		l.Warn("Failed to load reviews", zap.Error(reviewsErr))
		view.Error = "Não foi possível carregar as avaliações."
	} else {
		view.Reviews = reviews
		view.Average, view.HasAverage = h.reviews.Average(reviews)
	}
	h.RenderPage(c, game.Name, "Jogos", pages.GameDetail(view))
}

func (h *Handler) CreateGame(c *gin.Context) {
	in, closeImage, err := gameInput(c)
	if err != nil {
		h.formError(c, nil, err)
		return
	}
	defer closeImage()

	game, err := h.service.Create(c.Request.Context(), in)
	if err != nil {
		h.formError(c, nil, err)
		return
	}
	h.Redirect(c, fmt.Sprintf("/games/%d", game.ID))
}

func (h *Handler) UpdateGame(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Editar Jogo", "Jogos", "/games", err)
		return
	}
	in, closeImage, err := gameInput(c)
	if err != nil {
		h.formError(c, &models.Game{ID: id}, err)
		return
	}
	defer closeImage()

	if _, err := h.service.Update(c.Request.Context(), id, in); err != nil {
		h.formError(c, &models.Game{ID: id, Name: in.Name, Genre: in.Genre, Rating: in.Rating, ReleaseDate: in.ReleaseDate}, err)
		return
	}
	h.Redirect(c, fmt.Sprintf("/games/%d", id))
}

func (h *Handler) DeleteGame(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Jogos", "Jogos", "/games", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if middleware.IsHTMX(c) {
			h.RenderBanner(c, domain.StatusOf(err), "#flash", banner.BannerProps{
				Type:        banner.BannerError,
				Message:     "Erro ao excluir jogo",
				Description: models.MessageOf(err, domain.MessageFor(err)),
				Dismissable: true,
				AutoDismiss: 5,
			})
			return
		}
		h.RenderError(c, "Jogos", "Jogos", "/games", err)
		return
	}
	h.Redirect(c, "/games")
}

// ShowCover proxies the stored cover so the browser never talks to the API directly.
func (h *Handler) ShowCover(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		c.Status(http.StatusNotFound)
		return
	}
	img, err := h.service.Image(c.Request.Context(), id)
	if err != nil {
		h.log.Debug("Cover unavailable", zap.Int64("game_id", id), zap.Error(err))
		c.Status(domain.StatusOf(err))
		return
	}
	defer img.Body.Close()

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Cache-Control", "public, max-age=300")
	c.DataFromReader(http.StatusOK, img.ContentLength, contentType, img.Body, nil)
}

func (h *Handler) loadGame(c *gin.Context) (*models.Game, bool) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Jogo", "Jogos", "/games", err)
		return nil, false
	}
	game, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.RenderError(c, "Jogo", "Jogos", "/games", err)
		return nil, false
	}
	return game, true
}

func (h *Handler) formError(c *gin.Context, game *models.Game, err error) {
	status := domain.StatusOf(err)
	if errors.Is(err, models.ErrValidation) {
		status = http.StatusBadRequest
	}
	message := models.MessageOf(err, domain.MessageFor(err))
	if middleware.IsHTMX(c) {
		h.RenderBanner(c, status, "#game-form-response", banner.BannerProps{
			ID:          "game-form-error",
			Type:        banner.BannerError,
			Message:     "Erro ao salvar jogo",
			Description: message,
			Dismissable: true,
		})
		return
	}
	h.RenderPageStatus(c, status, "Jogo", "Jogos", pages.GameForm(pages.GameFormView{
		Game:    game,
		Genres:  pages.Genres,
		Ratings: pages.Ratings,
		Error:   message,
	}))
}

// gameInput reads the game form. The returned func closes the uploaded file, if any.
func gameInput(c *gin.Context) (models.GameInput, func(), error) {
	in := models.GameInput{
		Name:        strings.TrimSpace(c.PostForm("nm_jogo")),
		Genre:       strings.TrimSpace(c.PostForm("genero")),
		Rating:      strings.TrimSpace(c.PostForm("classificacao")),
		ReleaseDate: strings.TrimSpace(c.PostForm("dt_jogo")),
	}
	noop := func() {}

	header, err := c.FormFile("img_jogo")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) || (err == nil && header.Size == 0) {
		return in, noop, nil
	}
	if err != nil {
		return in, noop, models.NewValidationError("img_jogo", "Não foi possível ler a imagem enviada")
	}
	file, err := header.Open()
	if err != nil {
		return in, noop, models.NewValidationError("img_jogo", "Não foi possível ler a imagem enviada")
	}
	in.Image = &models.ImageUpload{
		Filename:    header.Filename,
		ContentType: imageContentType(header),
		Data:        file,
	}
	return in, func() { _ = file.Close() }, nil
}

func imageContentType(header *multipart.FileHeader) string {
	if ct := header.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
