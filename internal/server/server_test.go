package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/pkg/config"
)

func newTestApp(t *testing.T) *gin.Engine {
	t.Helper()

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/jogos":
			_, _ = w.Write([]byte(`[
				{"id_jogo":1,"nm_jogo":"Zelda","genero":"Aventura","classificacao":"L","id_usuario":1},
				{"id_jogo":2,"nm_jogo":"Hades","genero":"Ação","classificacao":"14","id_usuario":1}
			]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"message":"não encontrado"}`))
		}
	}))
	t.Cleanup(backend.Close)

	cfg := &config.Config{
		Backend:       config.BackendConfig{BaseURL: backend.URL, Timeout: 2 * time.Second},
		Session:       config.SessionConfig{Store: config.SessionStoreMemory},
		Observability: config.ObservabilityConfig{ServiceName: "checkpoint-test"},
		ServerHost:    "127.0.0.1",
		ServerPort:    "0",
		CacheTTL:      time.Minute,
	}

	srv, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	router, err := SetupRouter(cfg, srv.SessionStore(), zap.NewNop())
	require.NoError(t, err)
	srv.SetRouter(router)
	assert.Equal(t, "127.0.0.1:0", srv.HTTPServer().Addr)

	return router
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, target, nil))
	return w
}

func TestRouter_HomeListsRecentGames(t *testing.T) {
	r := newTestApp(t)

	w := serve(r, http.MethodGet, "/")
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Contains(t, doc.Text(), "Hades")
	assert.Contains(t, doc.Text(), "Zelda")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))
}

func TestRouter_ServesAssets(t *testing.T) {
	r := newTestApp(t)

	w := serve(r, http.MethodGet, "/assets/js/app.js")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "responseHandling")

	w = serve(r, http.MethodGet, "/assets/css/app.css")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_ProtectedRoutesNeedSession(t *testing.T) {
	r := newTestApp(t)

	for _, target := range []string{"/profile", "/games/new"} {
		w := serve(r, http.MethodGet, target)
		assert.Equal(t, http.StatusFound, w.Code, target)
		assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login?next="), target)
	}

	w := serve(r, http.MethodPost, "/lists")
	assert.Equal(t, http.StatusFound, w.Code)
}

func TestRouter_RefusesCrossSiteWrites(t *testing.T) {
	r := newTestApp(t)

	for _, target := range []string{"/lists/7/delete", "/auth/logout", "/auth/login"} {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("email=a%40b.c&password=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.Header.Set("Origin", "https://evil.example")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), target)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodPost, "/lists", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Sec-Fetch-Site", "same-origin")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusFound, w.Code, "same-origin writes reach the auth gate")
}

func TestRouter_UnknownPathRendersNotFound(t *testing.T) {
	r := newTestApp(t)

	w := serve(r, http.MethodGet, "/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg := &config.Config{
		Session: config.SessionConfig{Store: config.SessionStoreSQLite, Path: t.TempDir() + "/session.db"},
	}
	srv, err := New(cfg, zap.NewNop())
	require.NoError(t, err)
	defer srv.Close()

	assert.NotNil(t, srv.SessionStore())
	assert.NotNil(t, srv.db)
}
