package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/banner"
	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

type AuthHandlers struct {
	*domain.BaseHandler
	authService AuthService
	logger      *zap.Logger
}

func NewAuthHandlers(base *domain.BaseHandler, authService AuthService, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		BaseHandler: base,
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandlers) LoginPage(c *gin.Context) {
	view := pages.LoginView{Next: safeNext(c.Query("next"))}
	if middleware.IsHTMX(c) {
		h.RenderFragment(c, http.StatusOK, pages.LoginForm(view))
		return
	}
	h.RenderPage(c, "Entrar", "", pages.LoginForm(view))
}

func (h *AuthHandlers) RegisterPage(c *gin.Context) {
	if middleware.IsHTMX(c) {
		h.RenderFragment(c, http.StatusOK, pages.RegisterForm(pages.RegisterView{}))
		return
	}
	h.RenderPage(c, "Cadastrar", "", pages.RegisterForm(pages.RegisterView{}))
}

func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	h.logger.Info("Login attempt", zap.String("remote_addr", c.ClientIP()))

	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")
	next := safeNext(c.PostForm("next"))

	resp, err := h.authService.Login(c.Request.Context(), email, password)
	if err != nil {
		status := http.StatusUnauthorized
		message := models.MessageOf(err, FallbackLoginMessage)
		switch {
		case errors.Is(err, models.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, models.ErrNetwork):
			status = http.StatusBadGateway
			message = domain.MessageFor(err)
		case !errors.Is(err, models.ErrAuthentication):
			status = http.StatusInternalServerError
			message = domain.MessageFor(err)
		}
		if middleware.IsHTMX(c) {
			h.RenderBanner(c, status, "#login-response", banner.BannerProps{
				Type:        banner.BannerError,
				Message:     "Erro ao fazer login",
				Description: message,
				Dismissable: true,
				ID:          "login-error",
				AutoDismiss: 5,
			})
			return
		}
		h.RenderPageStatus(c, status, "Entrar", "", pages.LoginForm(pages.LoginView{Email: email, Next: next, Error: message}))
		return
	}

	h.logger.Info("Successful login", zap.Int64("user_id", resp.User.ID))
	h.Redirect(c, next)
}

func (h *AuthHandlers) RegisterHandler(c *gin.Context) {
	h.logger.Info("Registration attempt", zap.String("remote_addr", c.ClientIP()))

	name := strings.TrimSpace(c.PostForm("name"))
	email := strings.TrimSpace(c.PostForm("email"))
	password := c.PostForm("password")

	if err := h.authService.Register(c.Request.Context(), name, email, password); err != nil {
		status := http.StatusBadRequest
		message := models.MessageOf(err, FallbackRegisterMessage)
		if errors.Is(err, models.ErrNetwork) {
			status = http.StatusBadGateway
			message = domain.MessageFor(err)
		} else if !errors.Is(err, models.ErrValidation) && !errors.Is(err, models.ErrRegistration) {
			status = http.StatusInternalServerError
		}
		if middleware.IsHTMX(c) {
			h.RenderBanner(c, status, "#register-response", banner.BannerProps{
				Type:        banner.BannerError,
				Message:     "Erro ao cadastrar",
				Description: message,
				Dismissable: true,
				ID:          "register-error",
				AutoDismiss: 5,
			})
			return
		}
		h.RenderPageStatus(c, status, "Cadastrar", "", pages.RegisterForm(pages.RegisterView{Name: name, Email: email, Error: message}))
		return
	}

	// A new account still has to sign in.
	view := pages.LoginView{Email: email, Next: "/", Success: "Cadastro realizado com sucesso. Agora você pode fazer login."}
	if middleware.IsHTMX(c) {
		c.Header("HX-Retarget", "#modal")
		h.RenderFragment(c, http.StatusOK, pages.LoginForm(view))
		return
	}
	h.RenderPage(c, "Entrar", "", pages.LoginForm(view))
}

// LogoutHandler ends the session and resets navigation to the home page.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	h.authService.Logout(c.Request.Context())
	h.Redirect(c, "/")
}

// safeNext keeps redirects on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}
