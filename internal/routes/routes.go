package routes

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/pages"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain/auth"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain/games"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain/home"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain/lists"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain/reviews"
	"github.com/FACorreiaa/go-checkpoint/internal/app/domain/users"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/renderer"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/apiclient"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/cache"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/config"
	"github.com/FACorreiaa/go-checkpoint/internal/pkg/session"
)

type AppHandlers struct {
	Home    *home.HomeHandlers
	Auth    *auth.AuthHandlers
	Games   *games.Handler
	Lists   *lists.Handler
	Reviews *reviews.Handler
	Profile *users.ProfileHandler
	Base    *domain.BaseHandler

	// Sessions feeds the signed-in user into every request.
	Sessions middleware.SessionReader
}

// Setup installs the templ renderer, wires the backend-facing services and registers every route.
func Setup(r *gin.Engine, cfg *config.Config, store session.Store, log *zap.Logger) error {
	ginHTMLRenderer := r.HTMLRender
	r.HTMLRender = &renderer.HTMLTemplRenderer{FallbackHTMLRenderer: ginHTMLRenderer}

	handlers, err := setupDependencies(context.Background(), cfg, store, log)
	if err != nil {
		return fmt.Errorf("failed to setup dependencies: %w", err)
	}
	setupRouter(r, handlers)
	return nil
}

func setupDependencies(ctx context.Context, cfg *config.Config, store session.Store, log *zap.Logger) (*AppHandlers, error) {
	client, err := apiclient.New(apiclient.Options{
		BaseURL: cfg.Backend.BaseURL,
		Timeout: cfg.Backend.Timeout,
	}, log)
	if err != nil {
		return nil, err
	}

	baseHandler := domain.NewBaseHandler(log)
	queries := cache.New(cfg.CacheTTL, "queries", log)
	sessions := session.NewManager(store, log)

	// Auth owns the bearer header and flushes cached reads on identity changes;
	// a 401 on an authenticated call drops the session.
	authRepo := auth.NewHTTPAuthRepo(client, log)
	authService := auth.NewAuthService(authRepo, sessions, client, queries, log)
	client.OnUnauthorized(authService.HandleUnauthorized)
	authService.InitializeAuth(ctx)

	// Create repositories
	gamesRepo := games.NewRepository(client, log)
	listsRepo := lists.NewRepository(client, log)
	reviewsRepo := reviews.NewRepository(client, log)
	userRepo := users.NewHTTPUserRepo(client, log)

	// Create services
	gamesService := games.NewService(gamesRepo, queries, log)
	listsService := lists.NewService(listsRepo, queries, log)
	reviewsService := reviews.NewService(reviewsRepo, queries, authService, log)
	userService := users.NewUserService(userRepo, queries, log)

	return &AppHandlers{
		Home:     home.NewHomeHandlers(baseHandler, gamesService),
		Auth:     auth.NewAuthHandlers(baseHandler, authService, log),
		Games:    games.NewHandler(baseHandler, gamesService, reviewsService, listsService, log),
		Lists:    lists.NewHandler(baseHandler, listsService, gamesService, log),
		Reviews:  reviews.NewHandler(baseHandler, reviewsService, gamesService, log),
		Profile:  users.NewProfileHandler(baseHandler, userService, listsService, authService, log),
		Base:     baseHandler,
		Sessions: authService,
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.Use(middleware.SessionMiddleware(h.Sessions))

	public := r.Group("/")
	{
		public.GET("/", h.Home.ShowHomePage)
		public.GET("/games", h.Games.ShowGamesPage)
		public.GET("/games/:id", h.Games.ShowGameDetail)
		public.GET("/games/:id/cover", h.Games.ShowCover)
		public.GET("/lists", h.Lists.ShowListsPage)
		public.GET("/lists/:id", h.Lists.ShowListDetail)
	}

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/login", h.Auth.LoginPage)
		authGroup.POST("/login", h.Auth.LoginHandler)
		authGroup.GET("/register", h.Auth.RegisterPage)
		authGroup.POST("/register", h.Auth.RegisterHandler)
		authGroup.POST("/logout", h.Auth.LogoutHandler)
	}

	protected := r.Group("/")
	protected.Use(middleware.RequireAuth())
	{
		// Games
		protected.GET("/games/new", h.Games.ShowNewGameForm)
		protected.GET("/games/:id/edit", h.Games.ShowEditGameForm)
		protected.POST("/games", h.Games.CreateGame)
		protected.POST("/games/:id", h.Games.UpdateGame)
		protected.POST("/games/:id/delete", h.Games.DeleteGame)

		// Reviews
		protected.POST("/games/:id/reviews", h.Reviews.CreateReview)
		protected.POST("/games/:id/reviews/:rid/delete", h.Reviews.DeleteReview)

		// Lists
		protected.POST("/lists", h.Lists.CreateList)
		protected.POST("/lists/add-game", h.Lists.AddGameFromDetail)
		protected.POST("/lists/:id", h.Lists.UpdateList)
		protected.POST("/lists/:id/delete", h.Lists.DeleteList)
		protected.POST("/lists/:id/games", h.Lists.AddGame)
		protected.POST("/lists/:id/games/:gid/delete", h.Lists.RemoveGame)

		// Profile
		protected.GET("/profile", h.Profile.ShowProfile)
		protected.POST("/profile", h.Profile.UpdateProfile)
	}

	r.NoRoute(func(c *gin.Context) {
		h.Base.RenderPageStatus(c, http.StatusNotFound, "Página não encontrada", "", pages.NotFound(pages.NotFoundView{Back: "/"}))
	})
}
