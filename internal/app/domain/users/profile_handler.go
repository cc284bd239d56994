package users

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

// ListReader loads the lists shown on the profile.
type ListReader interface {
	ByUser(ctx context.Context, userID int64) ([]models.GameList, error)
}

// SessionRefresher rewrites the persisted user after a profile edit.
type SessionRefresher interface {
	RefreshUser(ctx context.Context, user models.User) error
}

type ProfileHandler struct {
	*domain.BaseHandler
	users    UserService
	lists    ListReader
	sessions SessionRefresher
	logger   *zap.Logger
}

func NewProfileHandler(base *domain.BaseHandler, users UserService, lists ListReader, sessions SessionRefresher, logger *zap.Logger) *ProfileHandler {
	return &ProfileHandler{
		BaseHandler: base,
		users:       users,
		lists:       lists,
		sessions:    sessions,
		logger:      logger,
	}
}

// ShowProfile renders the signed-in user's card and lists. Mounted behind RequireAuth.
func (h *ProfileHandler) ShowProfile(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		h.RenderError(c, "Perfil", "Perfil", "/", models.ErrUnauthenticated)
		return
	}
	h.render(c, http.StatusOK, user, "", c.Query("saved") == "1")
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		h.RenderError(c, "Perfil", "Perfil", "/", models.ErrUnauthenticated)
		return
	}
	l := h.logger.With(zap.String("method", "UpdateProfile"), zap.Int64("user_id", user.ID))

	name := c.PostForm("nm_usuario")
	email := c.PostForm("email_usuario")
	updated, err := h.users.Update(c.Request.Context(), user.ID, models.UpdateUserRequest{Name: &name, Email: &email})
	if err != nil {
		form := *user
		form.Name, form.Email = name, email
		h.render(c, domain.StatusOf(err), &form, models.MessageOf(err, domain.MessageFor(err)), false)
		return
	}

	if updated.ID == 0 {
		updated.ID = user.ID
	}
	if err := h.sessions.RefreshUser(c.Request.Context(), *updated); err != nil {
		l.Warn("Failed to refresh session user", zap.Error(err))
	}
	h.Redirect(c, "/profile?saved=1")
}

func (h *ProfileHandler) render(c *gin.Context, status int, user *models.User, errMsg string, saved bool) {
	lists, err := h.lists.ByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.logger.Warn("Failed to load profile lists", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	h.RenderPageStatus(c, status, "Perfil", "Perfil", pages.Profile(pages.ProfileView{
		User:  user,
		Lists: lists,
		Error: errMsg,
		Saved: saved,
	}))
}
