package domain

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-checkpoint/internal/app/models"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.NewValidationError("name", "x"), http.StatusUnprocessableEntity},
		{&models.APIError{Status: 404}, http.StatusNotFound},
		{&models.APIError{Status: 401}, http.StatusUnauthorized},
		{&models.APIError{Status: 403}, http.StatusForbidden},
		{&models.APIError{Status: 409}, http.StatusConflict},
		{&models.APIError{Status: 500}, http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", models.ErrNetwork), http.StatusBadGateway},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusOf(tt.err), "%v", tt.err)
	}
}

func TestMessageFor(t *testing.T) {
	assert.Contains(t, MessageFor(models.ErrNetwork), "conectar")
	assert.Contains(t, MessageFor(&models.APIError{Status: 401}), "sessão")
}

func TestParamID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"5", 5, false},
		{"0", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Params = gin.Params{{Key: "id", Value: tt.raw}}
		got, err := ParamID(c, "id")
		if tt.wantErr {
			assert.ErrorIs(t, err, models.ErrNotFound)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestRedirect(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewBaseHandler(zap.NewNop())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", nil)
	c.Request.Header.Set("HX-Request", "true")
	h.Redirect(c, "/games")
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/games", w.Header().Get("HX-Redirect"))

	// gin holds the status until the response is flushed, so the plain
	// redirect goes through an engine.
	r := gin.New()
	r.POST("/x", func(c *gin.Context) { h.Redirect(c, "/games") })
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/games", w.Header().Get("Location"))
}
