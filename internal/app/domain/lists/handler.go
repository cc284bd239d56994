package lists

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/banner"
	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// GameCatalog offers the games that can still be added to a list.
type GameCatalog interface {
	List(ctx context.Context) ([]models.Game, error)
}

type Handler struct {
	*domain.BaseHandler
	service Service
	games   GameCatalog
	log     *zap.Logger
}

func NewHandler(base *domain.BaseHandler, service Service, games GameCatalog, log *zap.Logger) *Handler {
	return &Handler{
		BaseHandler: base,
		service:     service,
		games:       games,
		log:         log,
	}
}

// ShowListsPage renders every community list
func (h *Handler) ShowListsPage(c *gin.Context) {
	lists, err := h.service.List(c.Request.Context())
	if err != nil {
		h.log.Error("Failed to get lists", zap.Error(err))
		h.RenderError(c, "Listas", "Listas", "/", err)
		return
	}
	h.RenderPage(c, "Listas", "Listas", pages.Lists(pages.ListsView{
		User:  middleware.GetUserFromContext(c),
		Lists: lists,
	}))
}

func (h *Handler) ShowListDetail(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	list, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	h.RenderPage(c, list.Name, "Listas", pages.ListDetail(h.detailView(c, list, "")))
}

func (h *Handler) CreateList(c *gin.Context) {
	name := c.PostForm("nm_lista")
	list, err := h.service.Create(c.Request.Context(), name, nil)
	if err != nil {
		lists, _ := h.service.List(c.Request.Context())
		h.RenderPageStatus(c, domain.StatusOf(err), "Listas", "Listas", pages.Lists(pages.ListsView{
			User:  middleware.GetUserFromContext(c),
			Lists: lists,
			Error: models.MessageOf(err, "Erro ao criar lista"),
		}))
		return
	}
	h.Redirect(c, fmt.Sprintf("/lists/%d", list.ID))
}

func (h *Handler) UpdateList(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	name := c.PostForm("nm_lista")
	if _, err := h.service.Update(c.Request.Context(), id, models.UpdateListRequest{Name: &name}); err != nil {
		h.detailError(c, id, err)
		return
	}
	h.Redirect(c, fmt.Sprintf("/lists/%d", id))
}

func (h *Handler) DeleteList(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.detailError(c, id, err)
		return
	}
	h.Redirect(c, "/lists")
}

func (h *Handler) AddGame(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	gameID, err := formID(c, "game_id")
	if err == nil {
		err = h.service.AddGame(c.Request.Context(), id, gameID)
	}
	if err != nil {
		h.detailError(c, id, err)
		return
	}
	h.Redirect(c, fmt.Sprintf("/lists/%d", id))
}

func (h *Handler) RemoveGame(c *gin.Context) {
	id, err := domain.ParamID(c, "id")
	if err != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	gameID, err := domain.ParamID(c, "gid")
	if err == nil {
		err = h.service.RemoveGame(c.Request.Context(), id, gameID)
	}
	if err != nil {
		h.detailError(c, id, err)
		return
	}
	h.Redirect(c, fmt.Sprintf("/lists/%d", id))
}

// AddGameFromDetail handles the add-to-list form of the game page and answers with a banner.
func (h *Handler) AddGameFromDetail(c *gin.Context) {
	listID, err := formID(c, "list_id")
	var gameID int64
	if err == nil {
		gameID, err = formID(c, "game_id")
	}
	if err == nil {
		err = h.service.AddGame(c.Request.Context(), listID, gameID)
	}

	if !middleware.IsHTMX(c) {
		if err != nil {
			h.RenderError(c, "Lista", "Listas", "/lists", err)
			return
		}
		h.Redirect(c, fmt.Sprintf("/lists/%d", listID))
		return
	}
	if err != nil {
		h.RenderBanner(c, domain.StatusOf(err), "", banner.BannerProps{
			Type:        banner.BannerError,
			Message:     "Erro ao adicionar jogo",
			Description: models.MessageOf(err, domain.MessageFor(err)),
			AutoDismiss: 5,
		})
		return
	}
	h.RenderBanner(c, http.StatusOK, "", banner.BannerProps{
		Type:        banner.BannerSuccess,
		Message:     "Jogo adicionado à lista",
		AutoDismiss: 3,
	})
}

func (h *Handler) detailView(c *gin.Context, list *models.GameList, errMsg string) pages.ListDetailView {
	user := middleware.GetUserFromContext(c)
	view := pages.ListDetailView{User: user, List: *list, Error: errMsg}
	if !user.CanEdit(list.OwnerID) {
		return view
	}
	games, err := h.games.List(c.Request.Context())
	if err != nil {
		h.log.Warn("Failed to load catalog for list", zap.Int64("list_id", list.ID), zap.Error(err))
		return view
	}
	for _, g := range games {
		if !list.Contains(g.ID) {
			view.Available = append(view.Available, g)
		}
	}
	return view
}

// detailError re-renders the list with the failure, or the error page when the list itself is gone.
func (h *Handler) detailError(c *gin.Context, id int64, err error) {
	list, getErr := h.service.Get(c.Request.Context(), id)
	if getErr != nil {
		h.RenderError(c, "Lista", "Listas", "/lists", err)
		return
	}
	h.RenderPageStatus(c, domain.StatusOf(err), list.Name, "Listas",
		pages.ListDetail(h.detailView(c, list, models.MessageOf(err, domain.MessageFor(err)))))
}

func formID(c *gin.Context, field string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.PostForm(field)), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.NewValidationError(field, "Selecione um item válido")
	}
	return id, nil
}
