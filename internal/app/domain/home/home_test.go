package home

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/app/renderer"
)

type stubCatalog struct {
	games []models.Game
	err   error
}

func (s stubCatalog) List(context.Context) ([]models.Game, error) { return s.games, s.err }

func serveHome(t *testing.T, catalog stubCatalog) *goquery.Document {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.HTMLRender = &renderer.HTMLTemplRenderer{FallbackHTMLRenderer: r.HTMLRender}
	r.GET("/", NewHomeHandlers(domain.NewBaseHandler(zap.NewNop()), catalog).ShowHomePage)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func TestShowHomePage(t *testing.T) {
	var games []models.Game
	for i := int64(1); i <= 6; i++ {
		games = append(games, models.Game{ID: i, Name: "Jogo"})
	}
	doc := serveHome(t, stubCatalog{games: games})

	assert.GreaterOrEqual(t, doc.Find(`a[href="/games"]`).Length(), 1)
	var hrefs []string
	doc.Find(`section a[href^="/games/"]`).Each(func(_ int, s *goquery.Selection) {
		hrefs = append(hrefs, s.AttrOr("href", ""))
	})
	assert.Equal(t, []string{"/games/6", "/games/5", "/games/4", "/games/3"}, hrefs)
}

func TestShowHomePage_CatalogDown(t *testing.T) {
	doc := serveHome(t, stubCatalog{err: errors.New("down")})
	assert.Contains(t, doc.Find("h1").Text(), "Checkpoint")
	assert.Equal(t, 0, doc.Find(`section a[href^="/games/"]`).Length())
}

func TestRecent(t *testing.T) {
	games := []models.Game{{ID: 3}, {ID: 9}, {ID: 1}, {ID: 7}}
	got := recent(games, 2)
	require.Len(t, got, 2)
	assert.Equal(t, int64(9), got[0].ID)
	assert.Equal(t, int64(7), got[1].ID)
	assert.Empty(t, recent(nil, 4))
}
