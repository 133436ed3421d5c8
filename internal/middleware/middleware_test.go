package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"telegram-bot-client/pkg/log"
)

func newEngine(mw Middleware) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.RequestID())
	r.GET("/private", mw.Auth(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestAuth(t *testing.T) {
	r := newEngine(New(log.NewNop(), "s3cret"))

	tests := []struct {
		name string
		key  string
		want int
	}{
		{"missing key", "", http.StatusUnauthorized},
		{"wrong key", "nope", http.StatusUnauthorized},
		{"right key", "s3cret", http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.key != "" {
				req.Header.Set(APIKeyHeader, tc.key)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}

	t.Run("disabled without key", func(t *testing.T) {
		w := httptest.NewRecorder()
		newEngine(New(log.NewNop(), "")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestRequestID(t *testing.T) {
	r := newEngine(New(log.NewNop(), ""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Header().Get(RequestIDHeader))
}
