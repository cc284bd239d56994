// Package pages holds the server-rendered views. Views are html/template
// files exposed as templ components so handlers and the layout compose them
// the same way.
package pages

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/FACorreiaa/go-checkpoint/internal/app/components/badge"
	"github.com/FACorreiaa/go-checkpoint/internal/app/components/button"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"button": func(variant, size string, extra ...string) string {
		return button.Class(button.Variant(variant), button.Size(size), extra...)
	},
	"badge": func(variant string) string {
		return badge.Class(badge.Variant(variant), "")
	},
	"canEdit": func(u *models.User, ownerID int64) bool {
		return u.CanEdit(ownerID)
	},
	"score": func(v float64) string {
		return fmt.Sprintf("%.1f", v)
	},
	"initial": func(s string) string {
		for _, r := range strings.TrimSpace(s) {
			return strings.ToUpper(string(r))
		}
		return "?"
	},
	"seq": func(from, to int) []int {
		out := make([]int, 0, to-from+1)
		for i := from; i <= to; i++ {
			out = append(out, i)
		}
		return out
	},
}

var templates = template.Must(template.New("pages").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))

func view(name string, data any) templ.Component {
	return templ.FromGoHTML(templates.Lookup(name), data)
}

type layoutView struct {
	models.LayoutTempl
	Body template.HTML
}

// LayoutPage wraps the content component in the full document with header
// and navigation.
func LayoutPage(data models.LayoutTempl) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		v := layoutView{LayoutTempl: data}
		if data.Content != nil {
			body, err := templ.ToGoHTML(ctx, data.Content)
			if err != nil {
				return err
			}
			v.Body = body
		}
		return templates.ExecuteTemplate(w, "layout", v)
	})
}

// Genres offered by the game form and the catalog filter.
var Genres = []string{"Ação", "Aventura", "RPG", "Estratégia", "Esporte", "Corrida", "Puzzle", "Simulação"}

// Ratings are the content ratings offered by the game form.
var Ratings = []string{"Livre", "10+", "12+", "14+", "16+", "18+"}

type HomeView struct {
	User   *models.User
	Recent []models.Game
}

func Home(v HomeView) templ.Component { return view("home", v) }

type LoginView struct {
	Email   string
	Next    string
	Error   string
	Success string
}

func LoginForm(v LoginView) templ.Component { return view("login", v) }

type RegisterView struct {
	Name  string
	Email string
	Error string
}

func RegisterForm(v RegisterView) templ.Component { return view("register", v) }

type GamesView struct {
	User    *models.User
	Games   []models.Game
	Query   string
	Genre   string
	Genres  []string
	Ratings []string
	Total   int
}

func Games(v GamesView) templ.Component { return view("games", v) }

// GameGrid is the fragment swapped in by the catalog search.
func GameGrid(v GamesView) templ.Component { return view("game-grid", v) }

type GameFormView struct {
	// Game is nil when creating.
	Game    *models.Game
	Genres  []string
	Ratings []string
	Error   string
}

func GameForm(v GameFormView) templ.Component { return view("game-form", v) }

type GameDetailView struct {
	User       *models.User
	Game       models.Game
	Reviews    []models.Review
	Average    float64
	HasAverage bool
	MyLists    []models.GameList
	Error      string
}

func GameDetail(v GameDetailView) templ.Component { return view("game-detail", v) }

// ReviewsSection is the fragment refreshed after a review is posted.
func ReviewsSection(v GameDetailView) templ.Component { return view("reviews", v) }

type ListsView struct {
	User  *models.User
	Lists []models.GameList
	Error string
}

func Lists(v ListsView) templ.Component { return view("lists", v) }

type ListDetailView struct {
	User      *models.User
	List      models.GameList
	Available []models.Game
	Error     string
}

func ListDetail(v ListDetailView) templ.Component { return view("list-detail", v) }

type ProfileView struct {
	User  *models.User
	Lists []models.GameList
	Error string
	Saved bool
}

func Profile(v ProfileView) templ.Component { return view("profile", v) }

type NotFoundView struct {
	Title   string
	Message string
	Back    string
}

func NotFound(v NotFoundView) templ.Component { return view("not-found", v) }

type ErrorView struct {
	Message string
}

func Error(v ErrorView) templ.Component { return view("error", v) }
