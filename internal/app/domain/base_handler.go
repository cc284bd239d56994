package domain

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/banner"
	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	return &BaseHandler{Logger: logger}
}

func (h *BaseHandler) newLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	user := middleware.GetUserFromContext(c)
	nav := models.OfflineNav
	if user != nil {
		nav = models.MainNav
	}
	return models.LayoutTempl{
		Title:     title,
		Content:   content,
		Nav:       nav,
		ActiveNav: activeNav,
		User:      user,
	}
}

func (h *BaseHandler) render(c *gin.Context, status int, component templ.Component) {
	c.HTML(status, "", component)
}

// RenderPage renders content alone for htmx requests and inside the layout otherwise.
func (h *BaseHandler) RenderPage(c *gin.Context, title, activeNav string, content templ.Component) {
	h.RenderPageStatus(c, http.StatusOK, title, activeNav, content)
}

func (h *BaseHandler) RenderPageStatus(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	if middleware.IsHTMX(c) && c.GetHeader("HX-Boosted") != "true" {
		h.render(c, status, content)
		return
	}
	h.render(c, status, pages.LayoutPage(h.newLayoutData(c, title, activeNav, content)))
}

// RenderFragment always renders without the layout.
func (h *BaseHandler) RenderFragment(c *gin.Context, status int, component templ.Component) {
	h.render(c, status, component)
}

// RenderBanner retargets an htmx request at target and shows a banner there.
func (h *BaseHandler) RenderBanner(c *gin.Context, status int, target string, props banner.BannerProps) {
	if target != "" {
		c.Header("HX-Retarget", target)
	}
	h.render(c, status, banner.Banner(props))
}

// RenderError maps err onto a status and an error or not-found page.
func (h *BaseHandler) RenderError(c *gin.Context, title, activeNav, back string, err error) {
	status := StatusOf(err)
	if status == http.StatusNotFound {
		h.RenderPageStatus(c, status, title, activeNav, pages.NotFound(pages.NotFoundView{Back: back}))
		return
	}
	h.Logger.Warn("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.RenderPageStatus(c, status, title, activeNav, pages.Error(pages.ErrorView{Message: models.MessageOf(err, MessageFor(err))}))
}

// Redirect sends the browser to location: HX-Redirect for htmx, 303 otherwise.
func (h *BaseHandler) Redirect(c *gin.Context, location string) {
	if middleware.IsHTMX(c) {
		c.Header("HX-Redirect", location)
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, location)
}

// StatusOf maps domain errors onto HTTP statuses.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrValidation):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated), errors.Is(err, models.ErrAuthentication):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNetwork):
		return http.StatusBadGateway
	default:
		var apiErr *models.APIError
		if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status
		}
		return http.StatusInternalServerError
	}
}

// MessageFor is the fallback message shown for err.
func MessageFor(err error) string {
	switch {
	case errors.Is(err, models.ErrNetwork):
		return "Não foi possível conectar ao servidor. Tente novamente."
	case errors.Is(err, models.ErrUnauthenticated):
		return "Sua sessão expirou. Entre novamente."
	case errors.Is(err, models.ErrForbidden):
		return "Você não tem permissão para esta ação."
	default:
		return "Algo deu errado. Tente novamente."
	}
}

// ParamID parses the numeric path parameter name. A malformed id reads as not found.
func ParamID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: %w", name, c.Param(name), models.ErrNotFound)
	}
	return id, nil
}
