package games

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/domain"
	"github.com/FACorreiaa/go-checkpoint/internal/app/middleware"
	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
	"github.com/FACorreiaa/go-checkpoint/internal/app/renderer"
)

type stubReviews struct {
	reviews []models.Review
	err     error
}

func (s stubReviews) ByGame(_ context.Context, gameID int64) ([]models.Review, error) {
	return s.reviews, s.err
}

func (s stubReviews) Average(reviews []models.Review) (float64, bool) {
	if len(reviews) == 0 {
		return 0, false
	}
	var sum float64
	for _, r := range reviews {
		sum += r.Score
	}
	return sum / float64(len(reviews)), true
}

type stubLists []models.GameList

func (s stubLists) ByUser(context.Context, int64) ([]models.GameList, error) {
	return s, nil
}

type staticSession struct{ user *models.User }

func (s staticSession) Current(context.Context) (*models.User, bool) {
	return s.user, s.user != nil
}

func newTestRouter(t *testing.T, user *models.User, reviews stubReviews) (*gin.Engine, *catalogBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, backend := newTestService(t, catalog...)
	h := NewHandler(domain.NewBaseHandler(zap.NewNop()), svc, reviews, stubLists{{ID: 9, Name: "Favoritos", OwnerID: 1}}, zap.NewNop())

	r := gin.New()
	r.HTMLRender = &renderer.HTMLTemplRenderer{FallbackHTMLRenderer: r.HTMLRender}
	r.Use(middleware.SessionMiddleware(staticSession{user: user}))
	r.GET("/games", h.ShowGamesPage)
	r.GET("/games/:id", h.ShowGameDetail)
	r.GET("/games/:id/cover", h.ShowCover)
	r.GET("/games/:id/edit", h.ShowEditGameForm)
	r.POST("/games", h.CreateGame)
	r.POST("/games/:id", h.UpdateGame)
	r.POST("/games/:id/delete", h.DeleteGame)
	return r, backend
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func parse(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

var owner = &models.User{ID: 1, Name: "A", Email: "a@b.com", Role: models.RoleUser}

func TestShowGamesPage(t *testing.T) {
	r, _ := newTestRouter(t, owner, stubReviews{})

	w := get(r, "/games", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Equal(t, 3, doc.Find("[data-game-id]").Length())
	assert.Equal(t, 1, doc.Find(`img[src="/games/1/cover"]`).Length())
	assert.Equal(t, 2, doc.Find(`[data-placeholder="poster"]`).Length())
	// Edit affordances only on games owned by the viewer.
	assert.Equal(t, 1, doc.Find(`[data-game-id="1"] a[href="/games/1/edit"]`).Length())
	assert.Equal(t, 0, doc.Find(`[data-game-id="5"] a[href="/games/5/edit"]`).Length())
}

func TestShowGamesPage_SearchFragment(t *testing.T) {
	r, _ := newTestRouter(t, nil, stubReviews{})

	w := get(r, "/games?q=pokemon", map[string]string{"HX-Request": "true", "HX-Target": "game-grid"})
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Equal(t, 0, doc.Find("header").Length())
	assert.Equal(t, "1", doc.Find("#game-grid").AttrOr("data-total", ""))
	assert.Equal(t, "6", doc.Find("[data-game-id]").AttrOr("data-game-id", ""))

	w = get(r, "/games?q=nada", map[string]string{"HX-Request": "true", "HX-Target": "game-grid"})
	assert.Equal(t, 1, parse(t, w).Find(`[data-state="empty"]`).Length())
}

func TestShowGameDetail(t *testing.T) {
	reviews := stubReviews{reviews: []models.Review{
		{ID: 1, GameID: 1, UserID: 1, Score: 4, Comment: "Ótimo", UserName: "A"},
		{ID: 2, GameID: 1, UserID: 2, Score: 5, UserName: "B"},
	}}
	r, _ := newTestRouter(t, owner, reviews)

	w := get(r, "/games/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Equal(t, "The Legend of Zelda", doc.Find("article h1").Text())
	assert.Equal(t, "4.5", doc.Find("[data-average]").Text())
	assert.Equal(t, 2, doc.Find("[data-review-id]").Length())
	assert.Equal(t, 1, doc.Find("#review-form").Length())
	assert.Equal(t, "Favoritos", doc.Find(`#add-to-list select[name="list_id"] option`).Text())
}

func TestShowGameDetail_ReviewsFailureKeepsPage(t *testing.T) {
	r, _ := newTestRouter(t, nil, stubReviews{err: errors.New("boom")})

	w := get(r, "/games/5", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parse(t, w)
	assert.Contains(t, doc.Find("#reviews [role=alert]").Text(), "avaliações")
	assert.Equal(t, 0, doc.Find("#review-form").Length())
	assert.Equal(t, 0, doc.Find("#add-to-list").Length())
}

func TestShowGameDetail_NotFound(t *testing.T) {
	r, _ := newTestRouter(t, nil, stubReviews{})

	assert.Equal(t, http.StatusNotFound, get(r, "/games/99", nil).Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/games/abc", nil).Code)
}

func TestShowEditGameForm_ForbiddenForOthers(t *testing.T) {
	r, _ := newTestRouter(t, owner, stubReviews{})

	w := get(r, "/games/1/edit", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The Legend of Zelda", parse(t, w).Find(`input[name="nm_jogo"]`).AttrOr("value", ""))

	assert.Equal(t, http.StatusForbidden, get(r, "/games/5/edit", nil).Code)
}

func TestShowCover(t *testing.T) {
	r, _ := newTestRouter(t, nil, stubReviews{})

	w := get(r, "/games/1/cover", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "PNGDATA", w.Body.String())

	assert.Equal(t, http.StatusNotFound, get(r, "/games/5/cover", nil).Code)
}

func TestCreateGame_Multipart(t *testing.T) {
	r, backend := newTestRouter(t, owner, stubReviews{})

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("nm_jogo", "Hades"))
	require.NoError(t, mw.WriteField("genero", "Ação"))
	require.NoError(t, mw.WriteField("classificacao", "14+"))
	fw, err := mw.CreateFormFile("img_jogo", "hades.png")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("HADES"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/games", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/games/101", w.Header().Get("HX-Redirect"))
	assert.Equal(t, []byte("HADES"), backend.form().files["img_jogo"])
	assert.Equal(t, "Hades", backend.form().fields["nm_jogo"])
}

func TestCreateGame_ValidationBanner(t *testing.T) {
	r, _ := newTestRouter(t, owner, stubReviews{})

	req := httptest.NewRequest(http.MethodPost, "/games", bytes.NewBufferString("nm_jogo="))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "#game-form-response", w.Header().Get("HX-Retarget"))
	assert.Contains(t, parse(t, w).Find("#game-form-error").Text(), "obrigatório")
}

func TestDeleteGame(t *testing.T) {
	r, _ := newTestRouter(t, owner, stubReviews{})

	req := httptest.NewRequest(http.MethodPost, "/games/5/delete", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/games", w.Header().Get("Location"))

	doc := parse(t, get(r, "/games", nil))
	assert.Equal(t, 0, doc.Find(`[data-game-id="5"]`).Length())
}
